package userserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	userdomain "github.com/Apurer/go-gin-user-api/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-user-api/internal/domains/users/ports"
	apierrors "github.com/Apurer/go-gin-user-api/internal/shared/errors"
	"github.com/Apurer/go-gin-user-api/internal/shared/validation"
)

var (
	// errEmptyRequestBody reports a missing or JSON-null request body.
	errEmptyRequestBody = errors.New("request body must not be empty")
	// errNullPatchDocument reports a missing or JSON-null patch body.
	errNullPatchDocument = errors.New("patch document must not be null")
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondBadRequest reports malformed input as an RFC 7807 response.
func respondBadRequest(c *gin.Context, detail string) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(detail))
}

// respondValidation enumerates accumulated field errors as a 422 response.
func respondValidation(c *gin.Context, fieldErrors validation.Errors) {
	respondProblem(c, apierrors.NewValidationProblem(fieldErrors))
}

// respondUserServiceError translates service-level failures. Not-found keeps
// an empty body to match the resource contract, and entity invariant
// violations stay field-validation responses rather than server errors.
func respondUserServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, userports.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if errors.Is(err, userports.ErrIdempotencyConflict) {
		respondProblem(c, apierrors.ErrConflict.WithDetail("Idempotency-Key was already used with a different payload"))
		return
	}
	if fieldErrors, ok := domainFieldErrors(err); ok {
		respondValidation(c, fieldErrors)
		return
	}
	respondProblem(c, apierrors.ErrInternal.WithDetail(err.Error()))
}

// domainFieldErrors maps entity invariant sentinels to the field errors the
// validation layer would have produced for the same input.
func domainFieldErrors(err error) (validation.Errors, bool) {
	switch {
	case errors.Is(err, userdomain.ErrEmptyLogin):
		return validation.Errors{"login": {msgLoginEmpty}}, true
	case errors.Is(err, userdomain.ErrLoginCharset):
		return validation.Errors{"login": {msgLoginCharset}}, true
	case errors.Is(err, userdomain.ErrEmptyFirstName):
		return validation.Errors{"firstName": {msgFirstNameEmpty}}, true
	case errors.Is(err, userdomain.ErrEmptyLastName):
		return validation.Errors{"lastName": {msgLastNameEmpty}}, true
	}
	return nil, false
}
