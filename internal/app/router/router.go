// Package router resolves locations against a static, ordered route table.
//
// A Router is built once from the route definitions and is immutable and
// safe for concurrent use afterwards. Navigation sessions (history, the
// Idle/Resolving state machine, commit hooks) live in a Navigator obtained
// from Router.NewNavigator.
package router

import (
	"errors"
	"fmt"

	"github.com/jsamuelsen/formdesk/internal/domain"
)

// Routing errors.
var (
	// ErrInvalidRouteTable wraps every configuration error reported by New.
	ErrInvalidRouteTable = errors.New("invalid route table")

	// ErrRouteNotFound is returned by Resolve when no route matches.
	ErrRouteNotFound error = &domain.NotFoundError{Entity: "route"}

	// ErrNavigationInProgress is returned when a navigation is requested
	// while the navigator is resolving another one.
	ErrNavigationInProgress error = &domain.ConflictError{Entity: "navigation", Reason: "another navigation is resolving"}

	// ErrHistoryBoundary is returned when a history traversal would leave
	// the recorded entries.
	ErrHistoryBoundary error = &domain.ValidationError{Field: "history", Message: "position out of range"}
)

type entry struct {
	route   domain.Route
	pattern *pattern
}

// Router holds the compiled route table.
type Router struct {
	entries []entry
	byName  map[string]int
}

// New validates and compiles the route table. Routes are matched in the
// order given. Malformed patterns, missing components and duplicate paths
// or names are rejected here rather than at navigation time.
func New(routes ...domain.Route) (*Router, error) {
	r := &Router{
		entries: make([]entry, 0, len(routes)),
		byName:  make(map[string]int, len(routes)),
	}

	shapes := make(map[string]string, len(routes))

	for i, route := range routes {
		p, err := compilePattern(route.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: route #%d: %w", ErrInvalidRouteTable, i, err)
		}

		if route.Component == nil {
			return nil, fmt.Errorf("%w: route #%d: %w", ErrInvalidRouteTable, i,
				domain.NewValidationErrorWithValue("component", "is required", route.Path))
		}

		if prev, dup := shapes[p.shape]; dup {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRouteTable,
				domain.NewConflictErrorWithDetails("route", "duplicate path "+route.Path, "collides with "+prev))
		}
		shapes[p.shape] = route.Path

		if route.Name != "" {
			if _, dup := r.byName[route.Name]; dup {
				return nil, fmt.Errorf("%w: %w", ErrInvalidRouteTable,
					domain.NewConflictError("route", "duplicate name "+route.Name))
			}
			r.byName[route.Name] = i
		}

		r.entries = append(r.entries, entry{route: route, pattern: p})
	}

	return r, nil
}

// Resolve returns the first route whose pattern matches the location's
// path, with its extracted parameters. The query and fragment are ignored.
// When nothing matches the error is ErrRouteNotFound.
func (r *Router) Resolve(location string) (domain.Match, error) {
	path := canonicalPath(location)
	segs := splitSegments(path)

	for _, e := range r.entries {
		if params, ok := e.pattern.match(segs); ok {
			return domain.Match{Route: e.route, Params: params, Path: path}, nil
		}
	}

	return domain.Match{Path: path}, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
}

// Routes returns a copy of the table in declaration order.
func (r *Router) Routes() []domain.Route {
	out := make([]domain.Route, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.route
	}

	return out
}

// Lookup returns the route registered under name.
func (r *Router) Lookup(name string) (domain.Route, error) {
	i, ok := r.byName[name]
	if !ok {
		return domain.Route{}, domain.NewNotFoundError("route", name)
	}

	return r.entries[i].route, nil
}

// Href builds the path for a named route.
func (r *Router) Href(name string, params domain.Params) (string, error) {
	i, ok := r.byName[name]
	if !ok {
		return "", domain.NewNotFoundError("route", name)
	}

	return r.entries[i].pattern.build(params)
}
