package domain

import (
	"context"

	"golang.org/x/net/html"
)

// Page is a page-rendering unit the router dispatches to by route.
// Implementations must not retain or mutate the params map.
type Page interface {
	// Render builds the page tree for the matched parameters.
	Render(ctx context.Context, params Params) (*html.Node, error)
}

// PageFunc adapts a function to the Page interface.
type PageFunc func(ctx context.Context, params Params) (*html.Node, error)

// Render implements Page.
func (f PageFunc) Render(ctx context.Context, params Params) (*html.Node, error) {
	return f(ctx, params)
}

// Route binds a URL path pattern to a page, optionally under a name used
// for programmatic navigation.
type Route struct {
	// Path is the pattern: static segments, ":param" for one segment and
	// "*rest" for the remainder.
	Path string

	// Name is the symbolic identifier. Empty means unnamed.
	Name string

	// Component renders the page.
	Component Page
}

// Params holds path parameters extracted by a match.
type Params map[string]string

// Get returns the named parameter, or "" if absent.
func (p Params) Get(name string) string {
	return p[name]
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}

	return out
}

// Match is the result of resolving a location against the route table.
type Match struct {
	// Route is the first route whose pattern matched.
	Route Route

	// Params are the decoded path parameters.
	Params Params

	// Path is the canonical path that was matched.
	Path string
}
