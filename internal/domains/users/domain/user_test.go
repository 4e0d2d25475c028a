package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("  jdoe1  ", " John ", " Doe ")
	require.NoError(t, err)
	require.Equal(t, "jdoe1", user.Login)
	require.Equal(t, "John", user.FirstName)
	require.Equal(t, "Doe", user.LastName)
}

func TestNewUser_LoginRules(t *testing.T) {
	_, err := NewUser("   ", "John", "Doe")
	require.ErrorIs(t, err, ErrEmptyLogin)

	_, err = NewUser("j.doe", "John", "Doe")
	require.ErrorIs(t, err, ErrLoginCharset)

	_, err = NewUser("jdoe_", "John", "Doe")
	require.ErrorIs(t, err, ErrLoginCharset)
}

func TestSetNames(t *testing.T) {
	user, err := NewUser("jdoe", "John", "Doe")
	require.NoError(t, err)

	require.ErrorIs(t, user.SetNames("", "Doe"), ErrEmptyFirstName)
	require.ErrorIs(t, user.SetNames("John", "  "), ErrEmptyLastName)

	require.NoError(t, user.SetNames(" Jane ", " Poe "))
	require.Equal(t, "Jane", user.FirstName)
	require.Equal(t, "Poe", user.LastName)
}

func TestFullName(t *testing.T) {
	user, err := NewUser("jdoe", "John", "Doe")
	require.NoError(t, err)
	require.Equal(t, "Doe John", user.FullName())
}

func TestValidate(t *testing.T) {
	user := &User{Login: "jdoe", FirstName: "John", LastName: "Doe"}
	require.NoError(t, user.Validate())

	user.Login = "j doe"
	require.ErrorIs(t, user.Validate(), ErrLoginCharset)

	user.Login = "jdoe"
	user.LastName = ""
	require.ErrorIs(t, user.Validate(), ErrEmptyLastName)
}

func TestIsAlphanumeric(t *testing.T) {
	require.True(t, IsAlphanumeric("abcXYZ019"))
	require.False(t, IsAlphanumeric(""))
	require.False(t, IsAlphanumeric("with space"))
	require.False(t, IsAlphanumeric("dash-ed"))
	require.False(t, IsAlphanumeric("żółw"))
}
