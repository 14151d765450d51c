package router

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/formdesk/internal/domain"
)

const instrumentationName = "github.com/jsamuelsen/formdesk/internal/app/router"

// State is the observable state of a Navigator.
type State int

const (
	// StateIdle means no navigation is in progress.
	StateIdle State = iota

	// StateResolving means a location change was requested and its match
	// has not been committed yet.
	StateResolving
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	default:
		return "unknown"
	}
}

// Kind says how a navigation changed the history.
type Kind int

const (
	KindPush Kind = iota
	KindReplace
	KindTraverse
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPush:
		return "push"
	case KindReplace:
		return "replace"
	case KindTraverse:
		return "traverse"
	default:
		return "unknown"
	}
}

// Navigation is the finalized outcome of one navigation.
type Navigation struct {
	// From is the location before the navigation ("" for the first one).
	From string

	// To is the requested location, including any query or fragment.
	To string

	// Kind is how the history changed.
	Kind Kind

	// Match is set when a route matched; nil for a not found outcome.
	Match *domain.Match
}

// NotFound reports whether no route matched the location.
func (n Navigation) NotFound() bool {
	return n.Match == nil
}

// RouteName returns the matched route's name, or "" when not found.
func (n Navigation) RouteName() string {
	if n.Match == nil {
		return ""
	}

	return n.Match.Route.Name
}

// RouteLabel identifies the matched route for metrics and logs: its name,
// or its path pattern when the route is unnamed. It is "" when not found.
func (n Navigation) RouteLabel() string {
	if n.Match == nil {
		return ""
	}

	if n.Match.Route.Name != "" {
		return n.Match.Route.Name
	}

	return n.Match.Route.Path
}

// Hook observes committed navigations.
type Hook func(Navigation)

// Navigator is a navigation session over a Router: a history stack plus the
// Idle/Resolving state machine. Resolution is synchronous, so every
// navigation method returns with the navigator Idle again.
//
// A Navigator is not safe for concurrent use; each request or CLI session
// owns its own.
type Navigator struct {
	router *Router
	tracer trace.Tracer

	state   State
	history []string
	index   int
	current Navigation

	commits []Hook
	after   []Hook
}

// NewNavigator starts an empty navigation session.
func (r *Router) NewNavigator() *Navigator {
	return &Navigator{
		router: r,
		tracer: otel.Tracer(instrumentationName),
		index:  -1,
	}
}

// OnCommit registers a hook that receives each navigation while the
// navigator is still Resolving. This is where the outlet is updated.
// A navigation requested from inside a commit hook fails with
// ErrNavigationInProgress.
func (n *Navigator) OnCommit(h Hook) {
	n.commits = append(n.commits, h)
}

// AfterEach registers a hook that runs once the navigator is Idle again.
func (n *Navigator) AfterEach(h Hook) {
	n.after = append(n.after, h)
}

// State returns the current state.
func (n *Navigator) State() State {
	return n.state
}

// Current returns the last committed navigation.
func (n *Navigator) Current() Navigation {
	return n.current
}

// History returns a copy of the recorded locations and the current index
// (-1 before the first navigation).
func (n *Navigator) History() ([]string, int) {
	out := make([]string, len(n.history))
	copy(out, n.history)

	return out, n.index
}

// Push navigates to location, discarding any forward entries.
func (n *Navigator) Push(ctx context.Context, location string) (Navigation, error) {
	return n.navigate(ctx, KindPush, location, func() {
		n.history = append(n.history[:n.index+1], location)
		n.index++
	})
}

// Replace navigates to location in place of the current entry.
func (n *Navigator) Replace(ctx context.Context, location string) (Navigation, error) {
	return n.navigate(ctx, KindReplace, location, func() {
		if n.index < 0 {
			n.history = append(n.history, location)
			n.index = 0

			return
		}
		n.history[n.index] = location
	})
}

// PushNamed navigates to the route registered under name.
func (n *Navigator) PushNamed(ctx context.Context, name string, params domain.Params) (Navigation, error) {
	href, err := n.router.Href(name, params)
	if err != nil {
		return Navigation{}, err
	}

	return n.Push(ctx, href)
}

// Back moves one entry back in history.
func (n *Navigator) Back(ctx context.Context) (Navigation, error) {
	return n.Go(ctx, -1)
}

// Forward moves one entry forward in history.
func (n *Navigator) Forward(ctx context.Context) (Navigation, error) {
	return n.Go(ctx, 1)
}

// Go moves delta entries through history. Leaving the recorded range
// fails with ErrHistoryBoundary and changes nothing.
func (n *Navigator) Go(ctx context.Context, delta int) (Navigation, error) {
	if n.state == StateResolving {
		return Navigation{}, ErrNavigationInProgress
	}

	target := n.index + delta
	if n.index < 0 || target < 0 || target >= len(n.history) {
		return Navigation{}, ErrHistoryBoundary
	}

	return n.navigate(ctx, KindTraverse, n.history[target], func() {
		n.index = target
	})
}

func (n *Navigator) navigate(ctx context.Context, kind Kind, location string, record func()) (Navigation, error) {
	if n.state == StateResolving {
		return Navigation{}, ErrNavigationInProgress
	}

	_, span := n.tracer.Start(ctx, "router.navigate",
		trace.WithAttributes(
			attribute.String("navigation.kind", kind.String()),
			attribute.String("navigation.location", location),
		),
	)
	defer span.End()

	n.state = StateResolving
	defer func() { n.state = StateIdle }()

	nav := Navigation{
		To:   location,
		Kind: kind,
	}
	if n.index >= 0 {
		nav.From = n.history[n.index]
	}

	match, err := n.router.Resolve(location)
	switch {
	case err == nil:
		nav.Match = &match
		span.SetAttributes(attribute.String("route.name", match.Route.Name))
	case errors.Is(err, ErrRouteNotFound):
		span.SetAttributes(attribute.Bool("route.not_found", true))
	default:
		return Navigation{}, err
	}

	record()
	n.current = nav

	for _, h := range n.commits {
		h(nav)
	}

	n.state = StateIdle

	for _, h := range n.after {
		h(nav)
	}

	return nav, nil
}
