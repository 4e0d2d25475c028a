// Package links produces absolute URIs for named routes, used for Location
// headers and pagination links.
package links

import (
	"fmt"
	"net/url"
	"strings"
)

// Generator maps route names to gin-style patterns and renders absolute URIs.
type Generator struct {
	baseURL string
	routes  map[string]string
}

// NewGenerator creates a generator rooted at baseURL (scheme and host,
// no trailing slash).
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		routes:  map[string]string{},
	}
}

// Register associates a route name with its pattern, e.g. "/api/users/:id".
func (g *Generator) Register(name, pattern string) {
	if g == nil || name == "" {
		return
	}
	g.routes[name] = pattern
}

// URL renders the named route with params substituted for :segments and the
// query string appended.
func (g *Generator) URL(name string, params map[string]string, query url.Values) (string, error) {
	if g == nil {
		return "", fmt.Errorf("link generator not configured")
	}
	pattern, ok := g.routes[name]
	if !ok {
		return "", fmt.Errorf("unknown route %q", name)
	}
	segments := strings.Split(pattern, "/")
	for i, segment := range segments {
		if !strings.HasPrefix(segment, ":") {
			continue
		}
		key := segment[1:]
		value, ok := params[key]
		if !ok {
			return "", fmt.Errorf("route %q is missing parameter %q", name, key)
		}
		segments[i] = url.PathEscape(value)
	}
	uri := g.baseURL + strings.Join(segments, "/")
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	return uri, nil
}
