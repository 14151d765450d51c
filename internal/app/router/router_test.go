package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/jsamuelsen/formdesk/internal/domain"
	"github.com/jsamuelsen/formdesk/internal/ui"
)

func stubPage(label string) domain.Page {
	return domain.PageFunc(func(context.Context, domain.Params) (*html.Node, error) {
		return ui.Div(label), nil
	})
}

func defaultRoutes() []domain.Route {
	return []domain.Route{
		{Path: "/", Name: "Form", Component: stubPage("form")},
		{Path: "/admin", Name: "Admin", Component: stubPage("admin")},
	}
}

func TestResolve_DefaultTable(t *testing.T) {
	r, err := New(defaultRoutes()...)
	require.NoError(t, err)

	tests := []struct {
		location string
		wantName string
	}{
		{"/", "Form"},
		{"", "Form"},
		{"/?draft=1", "Form"},
		{"/admin", "Admin"},
		{"/admin/", "Admin"},
		{"/ADMIN", "Admin"},
		{"//admin", "Admin"},
		{"/admin?tab=routes#top", "Admin"},
		{"/./admin", "Admin"},
		{"/admin/..", "Form"},
		{"/admin/../admin/", "Admin"},
		{"/../../admin", "Admin"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			m, err := r.Resolve(tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, m.Route.Name)
			assert.Empty(t, m.Params)
		})
	}
}

func TestCanonicalPath(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"", "/"},
		{"/", "/"},
		{"admin", "/admin"},
		{"/admin//users/", "/admin/users"},
		{"/a/./b/../c?x=1#y", "/a/c"},
		{"/..", "/"},
		{"/../etc/passwd", "/etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalPath(tt.location))
		})
	}
}

func TestResolve_NotFound(t *testing.T) {
	r, err := New(defaultRoutes()...)
	require.NoError(t, err)

	for _, loc := range []string{"/does-not-exist", "/admin/users", "/form"} {
		m, err := r.Resolve(loc)
		require.Error(t, err, loc)
		assert.ErrorIs(t, err, ErrRouteNotFound)
		assert.True(t, domain.IsNotFound(err))
		assert.Equal(t, canonicalPath(loc), m.Path)
	}
}

func TestResolve_FirstDeclaredWins(t *testing.T) {
	specific := domain.Route{Path: "/items/new", Name: "NewItem", Component: stubPage("new")}
	generic := domain.Route{Path: "/items/:id", Name: "Item", Component: stubPage("item")}

	r, err := New(specific, generic)
	require.NoError(t, err)

	m, err := r.Resolve("/items/new")
	require.NoError(t, err)
	assert.Equal(t, "NewItem", m.Route.Name)

	reordered, err := New(generic, specific)
	require.NoError(t, err)

	m, err = reordered.Resolve("/items/new")
	require.NoError(t, err)
	assert.Equal(t, "Item", m.Route.Name)
	assert.Equal(t, "new", m.Params.Get("id"))
}

func TestResolve_Params(t *testing.T) {
	r, err := New(
		domain.Route{Path: "/users/:id", Name: "User", Component: stubPage("user")},
		domain.Route{Path: "/files/*rest", Name: "Files", Component: stubPage("files")},
	)
	require.NoError(t, err)

	m, err := r.Resolve("/users/a%20b")
	require.NoError(t, err)
	assert.Equal(t, domain.Params{"id": "a b"}, m.Params)

	m, err = r.Resolve("/files/docs/2024/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "docs/2024/report.pdf", m.Params.Get("rest"))

	m, err = r.Resolve("/files")
	require.NoError(t, err)
	assert.Equal(t, "", m.Params.Get("rest"))

	_, err = r.Resolve("/users/%zz")
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestNew_RejectsInvalidTables(t *testing.T) {
	page := stubPage("x")

	tests := []struct {
		name     string
		routes   []domain.Route
		sentinel error
	}{
		{
			name: "duplicate name",
			routes: []domain.Route{
				{Path: "/", Name: "Form", Component: page},
				{Path: "/other", Name: "Form", Component: page},
			},
			sentinel: domain.ErrConflict,
		},
		{
			name: "duplicate path",
			routes: []domain.Route{
				{Path: "/admin", Name: "Admin", Component: page},
				{Path: "/Admin/", Name: "Admin2", Component: page},
			},
			sentinel: domain.ErrConflict,
		},
		{
			name: "structurally equal params",
			routes: []domain.Route{
				{Path: "/u/:id", Component: page},
				{Path: "/u/:name", Component: page},
			},
			sentinel: domain.ErrConflict,
		},
		{
			name:     "empty path",
			routes:   []domain.Route{{Path: "", Component: page}},
			sentinel: domain.ErrValidation,
		},
		{
			name:     "relative path",
			routes:   []domain.Route{{Path: "admin", Component: page}},
			sentinel: domain.ErrValidation,
		},
		{
			name:     "empty parameter name",
			routes:   []domain.Route{{Path: "/u/:", Component: page}},
			sentinel: domain.ErrValidation,
		},
		{
			name:     "catch-all not last",
			routes:   []domain.Route{{Path: "/*rest/edit", Component: page}},
			sentinel: domain.ErrValidation,
		},
		{
			name:     "repeated parameter",
			routes:   []domain.Route{{Path: "/a/:id/b/:id", Component: page}},
			sentinel: domain.ErrValidation,
		},
		{
			name:     "empty segment",
			routes:   []domain.Route{{Path: "/a//b", Component: page}},
			sentinel: domain.ErrValidation,
		},
		{
			name:     "query in pattern",
			routes:   []domain.Route{{Path: "/a?b", Component: page}},
			sentinel: domain.ErrValidation,
		},
		{
			name:     "missing component",
			routes:   []domain.Route{{Path: "/", Name: "Form"}},
			sentinel: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.routes...)
			require.Error(t, err)
			assert.Nil(t, r)
			assert.ErrorIs(t, err, ErrInvalidRouteTable)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestNew_AllowsMultipleUnnamedRoutes(t *testing.T) {
	_, err := New(
		domain.Route{Path: "/a", Component: stubPage("a")},
		domain.Route{Path: "/b", Component: stubPage("b")},
	)
	require.NoError(t, err)
}

func TestRoutes_ReturnsCopyInOrder(t *testing.T) {
	r, err := New(defaultRoutes()...)
	require.NoError(t, err)

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "Form", routes[0].Name)
	assert.Equal(t, "Admin", routes[1].Name)

	routes[0].Name = "Mutated"
	assert.Equal(t, "Form", r.Routes()[0].Name)
}

func TestLookupAndHref(t *testing.T) {
	r, err := New(
		domain.Route{Path: "/", Name: "Form", Component: stubPage("form")},
		domain.Route{Path: "/users/:id", Name: "User", Component: stubPage("user")},
		domain.Route{Path: "/files/*rest", Name: "Files", Component: stubPage("files")},
	)
	require.NoError(t, err)

	route, err := r.Lookup("User")
	require.NoError(t, err)
	assert.Equal(t, "/users/:id", route.Path)

	_, err = r.Lookup("Missing")
	assert.True(t, domain.IsNotFound(err))

	href, err := r.Href("Form", nil)
	require.NoError(t, err)
	assert.Equal(t, "/", href)

	href, err = r.Href("User", domain.Params{"id": "a b"})
	require.NoError(t, err)
	assert.Equal(t, "/users/a%20b", href)

	href, err = r.Href("Files", domain.Params{"rest": "docs/report.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "/files/docs/report.pdf", href)

	_, err = r.Href("User", nil)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "params", verr.Field)

	_, err = r.Href("Missing", nil)
	assert.True(t, domain.IsNotFound(err))
}

func TestHref_RoundTripsThroughResolve(t *testing.T) {
	r, err := New(domain.Route{Path: "/users/:id/posts/:post", Name: "Post", Component: stubPage("post")})
	require.NoError(t, err)

	href, err := r.Href("Post", domain.Params{"id": "42", "post": "héllo/world"})
	require.NoError(t, err)

	m, err := r.Resolve(href)
	require.NoError(t, err)
	assert.Equal(t, "42", m.Params.Get("id"))
	assert.Equal(t, "héllo/world", m.Params.Get("post"))
}
