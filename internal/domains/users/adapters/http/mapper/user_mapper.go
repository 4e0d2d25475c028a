// Package mapper translates between transport payloads and the users domain.
// Field copies are written out explicitly so the wire contract stays visible.
package mapper

import (
	"strings"

	"github.com/google/uuid"

	userdomain "github.com/Apurer/go-gin-user-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-user-api/internal/domains/users/ports"
)

// UserResponse is the read model returned to clients.
type UserResponse struct {
	Login     string `json:"login" xml:"login"`
	FirstName string `json:"firstName" xml:"firstName"`
	LastName  string `json:"lastName" xml:"lastName"`
	FullName  string `json:"fullName" xml:"fullName"`
	ID        string `json:"id" xml:"id"`
}

// CreateUserRequest is the payload accepted by the create endpoint. Only the
// login carries a semantic constraint here; names are free-form.
type CreateUserRequest struct {
	Login     string `json:"login" xml:"login" validate:"required,notblank"`
	FirstName string `json:"firstName" xml:"firstName"`
	LastName  string `json:"lastName" xml:"lastName"`
}

// UpsertUserRequest is the mutable projection used by the replace and patch
// endpoints. All fields are declared required.
type UpsertUserRequest struct {
	Login     string `json:"login" xml:"login" validate:"required,notblank"`
	FirstName string `json:"firstName" xml:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName" xml:"lastName" validate:"required,notblank"`
}

// FromDomainUser converts a domain user into its read representation.
func FromDomainUser(user *userdomain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		Login:     user.Login,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName(),
		ID:        user.ID.String(),
	}
}

// FromDomainUsers converts a slice of domain users to the read representation.
func FromDomainUsers(users []userdomain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, FromDomainUser(&users[i]))
	}
	return result
}

// ToCreateInput builds the use-case input from the create payload.
func ToCreateInput(payload CreateUserRequest, idempotencyKey string) ports.CreateUserInput {
	return ports.CreateUserInput{
		Login:          strings.TrimSpace(payload.Login),
		FirstName:      strings.TrimSpace(payload.FirstName),
		LastName:       strings.TrimSpace(payload.LastName),
		IdempotencyKey: idempotencyKey,
	}
}

// ToDomainUser keys an entity by the path identifier and copies the upsert
// fields onto it. The replace path enforces only structural validation, so
// no charset rule is applied here.
func ToDomainUser(id uuid.UUID, payload UpsertUserRequest) *userdomain.User {
	return &userdomain.User{
		ID:        id,
		Login:     strings.TrimSpace(payload.Login),
		FirstName: strings.TrimSpace(payload.FirstName),
		LastName:  strings.TrimSpace(payload.LastName),
	}
}

// ToUpsertRequest projects an entity into the request shape patched by the
// partial-update endpoint.
func ToUpsertRequest(user *userdomain.User) UpsertUserRequest {
	if user == nil {
		return UpsertUserRequest{}
	}
	return UpsertUserRequest{
		Login:     user.Login,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// ApplyUpsert maps a patched projection back onto the entity.
func ApplyUpsert(user *userdomain.User, payload UpsertUserRequest) {
	if user == nil {
		return
	}
	user.Login = strings.TrimSpace(payload.Login)
	user.FirstName = strings.TrimSpace(payload.FirstName)
	user.LastName = strings.TrimSpace(payload.LastName)
}
