package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyLogin     = errors.New("login is required")
	ErrLoginCharset   = errors.New("login should contain only letters or digits")
	ErrEmptyFirstName = errors.New("first name is required")
	ErrEmptyLastName  = errors.New("last name is required")
)

// User represents a user entity. The ID is assigned by the repository on
// insert and never changes afterwards.
type User struct {
	ID        uuid.UUID
	Login     string
	FirstName string
	LastName  string
}

// NewUser builds a user ensuring the login invariant.
func NewUser(login, firstName, lastName string) (*User, error) {
	user := &User{}
	if err := user.SetLogin(login); err != nil {
		return nil, err
	}
	user.FirstName = strings.TrimSpace(firstName)
	user.LastName = strings.TrimSpace(lastName)
	return user, nil
}

// SetLogin trims and validates the login.
func (u *User) SetLogin(login string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return ErrEmptyLogin
	}
	if !IsAlphanumeric(login) {
		return ErrLoginCharset
	}
	u.Login = login
	return nil
}

// SetNames applies first and last name requiring both to be present.
func (u *User) SetNames(firstName, lastName string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" {
		return ErrEmptyFirstName
	}
	if lastName == "" {
		return ErrEmptyLastName
	}
	u.FirstName = firstName
	u.LastName = lastName
	return nil
}

// FullName renders the display name used by the read model.
func (u *User) FullName() string {
	return u.LastName + " " + u.FirstName
}

// Validate re-applies the full set of invariants enforced by the
// replace and patch paths.
func (u *User) Validate() error {
	if err := u.SetLogin(u.Login); err != nil {
		return err
	}
	return u.SetNames(u.FirstName, u.LastName)
}

// IsAlphanumeric reports whether s consists only of ASCII letters and digits.
func IsAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
