package userserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	userhttpmapper "github.com/Apurer/go-gin-user-api/internal/domains/users/adapters/http/mapper"
	userdomain "github.com/Apurer/go-gin-user-api/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-user-api/internal/domains/users/ports"
	"github.com/Apurer/go-gin-user-api/internal/shared/links"
	"github.com/Apurer/go-gin-user-api/internal/shared/pagination"
	"github.com/Apurer/go-gin-user-api/internal/shared/validation"
)

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
	maxPageSize       = 20

	idempotencyKeyHeader = "Idempotency-Key"
	paginationHeader     = "X-Pagination"

	msgLoginCharset   = "Login should contain only letters or digits"
	msgLoginEmpty     = "Login should not be empty"
	msgFirstNameEmpty = "FirstName should not be empty"
	msgLastNameEmpty  = "LastName should not be empty"
)

// UsersAPI implements the user resource endpoints.
type UsersAPI struct {
	service   userports.Service
	workflows userports.WorkflowOrchestrator
	links     *links.Generator
}

// NewUsersAPI wires dependencies.
func NewUsersAPI(service userports.Service, workflows userports.WorkflowOrchestrator, linkGen *links.Generator) UsersAPI {
	return UsersAPI{service: service, workflows: workflows, links: linkGen}
}

// Get /api/users/:id
// Get a user by identifier
func (api *UsersAPI) GetUserById(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	user, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(user))
}

// Head /api/users/:id
// Check user existence without transferring a body
func (api *UsersAPI) HeadUserById(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if _, err := api.service.GetByID(c.Request.Context(), id); err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Post /api/users
// Create a user
func (api *UsersAPI) CreateUser(c *gin.Context) {
	var payload userhttpmapper.CreateUserRequest
	if err := bindJSONBody(c, &payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	fieldErrors := validation.Struct(payload)
	// The charset rule inspects the raw value, so surrounding whitespace is
	// itself a violation rather than something to trim away.
	if strings.TrimSpace(payload.Login) != "" && !userdomain.IsAlphanumeric(payload.Login) {
		fieldErrors.Add("login", msgLoginCharset)
	}
	if fieldErrors.Any() {
		respondValidation(c, fieldErrors)
		return
	}

	input := userhttpmapper.ToCreateInput(payload, c.GetHeader(idempotencyKeyHeader))
	created, err := api.createUser(c, input)
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	api.setLocation(c, created.ID)
	c.JSON(http.StatusCreated, created.ID)
}

// Put /api/users/:id
// Replace a user, inserting it when the identifier is unknown
func (api *UsersAPI) UpsertUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload userhttpmapper.UpsertUserRequest
	if err := bindJSONBody(c, &payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if fieldErrors := validation.Struct(payload); fieldErrors.Any() {
		respondValidation(c, fieldErrors)
		return
	}

	user := userhttpmapper.ToDomainUser(id, payload)
	saved, inserted, err := api.service.Upsert(c.Request.Context(), user)
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	if inserted {
		api.setLocation(c, saved.ID)
		c.JSON(http.StatusCreated, saved.ID)
		return
	}
	c.Status(http.StatusNoContent)
}

// Patch /api/users/:id
// Apply a JSON Patch document to a user
func (api *UsersAPI) PartiallyUpdateUser(c *gin.Context) {
	// A malformed identifier reads as an unknown resource here, unlike the
	// replace path which rejects it as a bad request.
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	body, err := readPatchDocument(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	patch, err := jsonpatch.DecodePatch(body)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	existing, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondUserServiceError(c, err)
		return
	}

	projection := userhttpmapper.ToUpsertRequest(existing)
	fieldErrors := validation.Errors{}
	if patched, applyErr := applyPatch(patch, projection); applyErr != nil {
		fieldErrors.Add("patchDocument", applyErr.Error())
	} else {
		projection = patched
	}

	fieldErrors.Merge(validation.Struct(projection))
	checkProjection(projection, fieldErrors)
	if fieldErrors.Any() {
		respondValidation(c, fieldErrors)
		return
	}

	userhttpmapper.ApplyUpsert(existing, projection)
	if _, err := api.service.Replace(c.Request.Context(), existing); err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete /api/users/:id
// Delete a user
func (api *UsersAPI) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/users
// List users with pagination metadata in the X-Pagination header
func (api *UsersAPI) GetUsers(c *gin.Context) {
	pageNumber := queryInt(c, "pageNumber", defaultPageNumber)
	if pageNumber < 1 {
		pageNumber = 1
	}
	pageSize := queryInt(c, "pageSize", defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	page, err := api.service.List(c.Request.Context(), pageNumber, pageSize)
	if err != nil {
		respondUserServiceError(c, err)
		return
	}

	meta := api.paginationMetadata(page)
	if encoded, err := json.Marshal(meta); err == nil {
		c.Header(paginationHeader, string(encoded))
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUsers(page.Items))
}

// Options /api/users
// Advertise the methods supported by the collection endpoint
func (api *UsersAPI) OptionsUsers(c *gin.Context) {
	c.Header("Allow", "GET, POST, OPTIONS")
	c.Status(http.StatusOK)
}

func (api *UsersAPI) createUser(c *gin.Context, input userports.CreateUserInput) (*userdomain.User, error) {
	if api.workflows != nil {
		return api.workflows.CreateUser(c.Request.Context(), input)
	}
	return api.service.Create(c.Request.Context(), input)
}

func (api *UsersAPI) setLocation(c *gin.Context, id uuid.UUID) {
	location, err := api.links.URL(RouteGetUserById, map[string]string{"id": id.String()}, nil)
	if err != nil {
		return
	}
	c.Header("Location", location)
}

func (api *UsersAPI) paginationMetadata(page pagination.Page[userdomain.User]) pagination.Metadata {
	meta := pagination.Metadata{
		TotalCount:  page.TotalCount,
		PageSize:    page.PageSize,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
	}
	if page.HasPrevious() {
		meta.PreviousPageLink = api.listLink(page.CurrentPage-1, page.PageSize)
	}
	if page.HasNext() {
		meta.NextPageLink = api.listLink(page.CurrentPage+1, page.PageSize)
	}
	return meta
}

func (api *UsersAPI) listLink(pageNumber, pageSize int) *string {
	query := url.Values{}
	query.Set("pageNumber", strconv.Itoa(pageNumber))
	query.Set("pageSize", strconv.Itoa(pageSize))
	link, err := api.links.URL(RouteGetUsers, nil, query)
	if err != nil {
		return nil
	}
	return &link
}

// applyPatch runs the operations against a JSON projection of the request
// shape, reporting unknown paths and failed operations as a single error
// instead of panicking mid-apply.
func applyPatch(patch jsonpatch.Patch, projection userhttpmapper.UpsertUserRequest) (userhttpmapper.UpsertUserRequest, error) {
	document, err := json.Marshal(projection)
	if err != nil {
		return projection, err
	}
	patched, err := patch.Apply(document)
	if err != nil {
		return projection, err
	}
	// RFC 6902 lets add create arbitrary object members; rejecting unknown
	// fields here keeps those operations from vanishing as silent no-ops.
	decoder := json.NewDecoder(bytes.NewReader(patched))
	decoder.DisallowUnknownFields()
	var result userhttpmapper.UpsertUserRequest
	if err := decoder.Decode(&result); err != nil {
		return projection, err
	}
	return result, nil
}

// checkProjection applies the explicit field rules that the annotation layer
// does not cover. Both layers run so responses enumerate every violation.
func checkProjection(projection userhttpmapper.UpsertUserRequest, fieldErrors validation.Errors) {
	switch {
	case strings.TrimSpace(projection.Login) == "":
		fieldErrors.Add("login", msgLoginEmpty)
	case !userdomain.IsAlphanumeric(projection.Login):
		fieldErrors.Add("login", msgLoginCharset)
	}
	if strings.TrimSpace(projection.FirstName) == "" {
		fieldErrors.Add("firstName", msgFirstNameEmpty)
	}
	if strings.TrimSpace(projection.LastName) == "" {
		fieldErrors.Add("lastName", msgLastNameEmpty)
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "identifier must be a valid UUID")
		return uuid.UUID{}, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// bindJSONBody decodes the request body, treating an absent or JSON-null
// payload as missing rather than as an empty object.
func bindJSONBody(c *gin.Context, dst any) error {
	if c.Request.Body == nil {
		return errEmptyRequestBody
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errEmptyRequestBody
	}
	return json.Unmarshal(trimmed, dst)
}

func readPatchDocument(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, errNullPatchDocument
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, errNullPatchDocument
	}
	return trimmed, nil
}
