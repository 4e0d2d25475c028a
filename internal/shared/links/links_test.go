package links

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestURL_SubstitutesParams(t *testing.T) {
	gen := NewGenerator("http://localhost:8080/")
	gen.Register("users.get", "/api/users/:id")

	uri, err := gen.URL("users.get", map[string]string{"id": "42"}, nil)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/api/users/42", uri)
}

func TestURL_AppendsQuery(t *testing.T) {
	gen := NewGenerator("https://api.example.com")
	gen.Register("users.list", "/api/users")

	query := url.Values{}
	query.Set("pageNumber", "2")
	query.Set("pageSize", "10")
	uri, err := gen.URL("users.list", nil, query)
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/api/users?pageNumber=2&pageSize=10", uri)
}

func TestURL_UnknownRoute(t *testing.T) {
	gen := NewGenerator("http://localhost:8080")
	_, err := gen.URL("missing", nil, nil)
	require.Error(t, err)
}

func TestURL_MissingParam(t *testing.T) {
	gen := NewGenerator("http://localhost:8080")
	gen.Register("users.get", "/api/users/:id")
	_, err := gen.URL("users.get", nil, nil)
	require.Error(t, err)
}
