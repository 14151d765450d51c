// Package shell is the application shell: it owns the host document, the
// global presentation resources and the root component, and renders the
// router's committed page into the document's mount point.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"

	"github.com/jsamuelsen/formdesk/internal/app/router"
	"github.com/jsamuelsen/formdesk/internal/domain"
	"github.com/jsamuelsen/formdesk/internal/platform/logging"
	"github.com/jsamuelsen/formdesk/internal/ui"
)

const (
	instrumentationName = "github.com/jsamuelsen/formdesk/internal/app/shell"

	// outletMarkerPrefix starts the comment left in the mount point while
	// the static parts of the document are pre-rendered. Each mount adds a
	// random suffix so host document content cannot collide with it.
	outletMarkerPrefix = "formdesk-outlet-"
)

// Shell errors.
var (
	// ErrMountPointMissing means the host document has no element matching
	// the mount selector. It is a fatal startup error.
	ErrMountPointMissing error = &domain.NotFoundError{Entity: "mount point"}

	// ErrAlreadyMounted is returned by a second Mount, and by Use after Mount.
	ErrAlreadyMounted error = &domain.ConflictError{Entity: "shell", Reason: "already mounted"}

	// ErrNotMounted is returned by Render before Mount.
	ErrNotMounted = errors.New("shell is not mounted")
)

// Fallback is the policy for navigations that match no route.
type Fallback string

const (
	// FallbackPage renders the NotFound page into the outlet.
	FallbackPage Fallback = "page"

	// FallbackEmpty leaves the outlet empty.
	FallbackEmpty Fallback = "empty"
)

// Root is the root component: it wraps the outlet with the application
// chrome (navigation bar, container).
type Root interface {
	Render(ctx context.Context, outlet *html.Node, nav router.Navigation) (*html.Node, error)
}

// RootFunc adapts a function to the Root interface.
type RootFunc func(ctx context.Context, outlet *html.Node, nav router.Navigation) (*html.Node, error)

// Render implements Root.
func (f RootFunc) Render(ctx context.Context, outlet *html.Node, nav router.Navigation) (*html.Node, error) {
	return f(ctx, outlet, nav)
}

// RenderObserver receives render outcomes, typically for metrics. route is
// the navigation's RouteLabel.
type RenderObserver interface {
	ObserveRender(route string, status int, duration time.Duration)
}

// Config configures a Shell.
type Config struct {
	// Router provides navigation. Required.
	Router *router.Router

	// Document is the host document. Defaults to DefaultDocument().
	Document *Document

	// Root wraps the outlet. Defaults to rendering the outlet alone.
	Root Root

	// NotFound renders the outlet for unmatched locations when Fallback is
	// FallbackPage.
	NotFound domain.Page

	// Fallback selects the not found policy. Defaults to FallbackPage when
	// NotFound is set, FallbackEmpty otherwise.
	Fallback Fallback

	// Title replaces the document title when non-empty.
	Title string

	// Observer is optional.
	Observer RenderObserver

	// Logger is optional; slog.Default() is used when nil.
	Logger *slog.Logger
}

// Rendered is a rendered host document.
type Rendered struct {
	// Status is 200 for a matched route and 404 otherwise.
	Status int

	// HTML is the full document.
	HTML string

	// Route is the matched route name ("" when not found).
	Route string
}

// Shell is the application shell.
type Shell struct {
	router   *router.Router
	doc      *Document
	root     Root
	notFound domain.Page
	fallback Fallback
	title    string
	observer RenderObserver
	logger   *slog.Logger
	tracer   trace.Tracer

	mu        sync.RWMutex
	resources []Resource
	mounted   bool
	selector  string
	prefix    string
	suffix    string
}

// New creates an unmounted shell.
func New(cfg Config) (*Shell, error) {
	if cfg.Router == nil {
		return nil, domain.NewValidationError("router", "is required")
	}

	doc := cfg.Document
	if doc == nil {
		doc = DefaultDocument()
	}

	fallback := cfg.Fallback
	if fallback == "" {
		fallback = FallbackEmpty
		if cfg.NotFound != nil {
			fallback = FallbackPage
		}
	}

	switch fallback {
	case FallbackEmpty:
	case FallbackPage:
		if cfg.NotFound == nil {
			return nil, domain.NewValidationError("not_found", "is required by the page fallback")
		}
	default:
		return nil, domain.NewValidationErrorWithValue("fallback", "must be page or empty", string(fallback))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Shell{
		router:   cfg.Router,
		doc:      doc,
		root:     cfg.Root,
		notFound: cfg.NotFound,
		fallback: fallback,
		title:    cfg.Title,
		observer: cfg.Observer,
		logger:   logger.With(slog.String("component", "shell")),
		tracer:   otel.Tracer(instrumentationName),
	}, nil
}

// Router returns the router the shell navigates with.
func (s *Shell) Router() *router.Router {
	return s.router
}

// Use installs a plugin. Plugins must be installed before Mount.
func (s *Shell) Use(p Plugin) error {
	s.mu.RLock()
	mounted := s.mounted
	s.mu.RUnlock()

	if mounted {
		return ErrAlreadyMounted
	}

	if err := p.Install(s); err != nil {
		return fmt.Errorf("installing plugin: %w", err)
	}

	return nil
}

// AddResource attaches a global presentation resource.
func (s *Shell) AddResource(r Resource) error {
	if r.URL == "" {
		return domain.NewValidationErrorWithValue("resource", "url is required", r.Name)
	}

	if r.Kind != Stylesheet && r.Kind != Script {
		return domain.NewValidationErrorWithValue("resource", "kind must be stylesheet or script", string(r.Kind))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mounted {
		return ErrAlreadyMounted
	}

	s.resources = append(s.resources, r)

	return nil
}

// Resources returns the attached resources in installation order.
func (s *Shell) Resources() []Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Resource, len(s.resources))
	copy(out, s.resources)

	return out
}

// Mount binds the shell to the element matching selector ("#id"). It runs
// exactly once per shell and per document: a missing mount point returns
// ErrMountPointMissing, and a second call, or a mount into a document
// another shell already owns, returns ErrAlreadyMounted. The document
// outside the mount point is fixed from here on.
func (s *Shell) Mount(selector string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mounted {
		return ErrAlreadyMounted
	}

	id, ok := strings.CutPrefix(selector, "#")
	if !ok || id == "" {
		return domain.NewValidationErrorWithValue("mount point", "selector must have the form #id", selector)
	}

	target := ui.FindByID(s.doc.root, id)
	if target == nil {
		return fmt.Errorf("%w: %s", ErrMountPointMissing, selector)
	}

	if err := s.doc.claim(selector); err != nil {
		return err
	}

	prefix, suffix, err := s.bind(target)
	if err != nil {
		s.doc.release()
		return fmt.Errorf("%w: %s", err, selector)
	}

	s.prefix = prefix
	s.suffix = suffix
	s.selector = selector
	s.mounted = true

	s.logger.Info("shell mounted",
		slog.String(logging.KeyMountPoint, selector),
		slog.Int("resources", len(s.resources)),
		slog.Int("routes", len(s.router.Routes())),
	)

	return nil
}

// Mounted reports whether Mount succeeded, and the selector used.
func (s *Shell) Mounted() (bool, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.mounted, s.selector
}

// Render renders the host document with the navigation's page in the
// outlet.
func (s *Shell) Render(ctx context.Context, nav router.Navigation) (*Rendered, error) {
	s.mu.RLock()
	mounted, prefix, suffix := s.mounted, s.prefix, s.suffix
	s.mu.RUnlock()

	if !mounted {
		return nil, ErrNotMounted
	}

	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "shell.render",
		trace.WithAttributes(
			attribute.String("navigation.location", nav.To),
			attribute.String("route.name", nav.RouteName()),
		),
	)
	defer span.End()

	status := http.StatusOK
	if nav.NotFound() {
		status = http.StatusNotFound
	}

	outlet, err := s.renderOutlet(ctx, nav)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	tree := outlet
	if s.root != nil {
		tree, err = s.root.Render(ctx, outlet, nav)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("rendering root component: %w", err)
		}
	}

	body, err := ui.Render(tree)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if s.observer != nil {
		s.observer.ObserveRender(nav.RouteLabel(), status, time.Since(start))
	}

	return &Rendered{
		Status: status,
		HTML:   prefix + body + suffix,
		Route:  nav.RouteName(),
	}, nil
}

func (s *Shell) renderOutlet(ctx context.Context, nav router.Navigation) (*html.Node, error) {
	if nav.NotFound() {
		if s.fallback == FallbackEmpty {
			return nil, nil
		}

		node, err := s.notFound.Render(ctx, domain.Params{"path": nav.To})
		if err != nil {
			return nil, fmt.Errorf("rendering not found page: %w", err)
		}

		return node, nil
	}

	node, err := nav.Match.Route.Component.Render(ctx, nav.Match.Params)
	if err != nil {
		return nil, fmt.Errorf("rendering page %q: %w", nav.Match.Route.Name, err)
	}

	return node, nil
}

// bind fixes the document around target and splits its rendering at the
// outlet. It must be called with the lock held and the document claimed.
func (s *Shell) bind(target *html.Node) (string, string, error) {
	if s.title != "" {
		s.doc.setTitle(s.title)
	}

	s.attachResources()

	for c := target.FirstChild; c != nil; c = target.FirstChild {
		target.RemoveChild(c)
	}

	marker := &html.Node{Type: html.CommentNode, Data: outletMarkerPrefix + uuid.NewString()}
	target.AppendChild(marker)

	rendered, err := ui.Render(s.doc.root)
	if err != nil {
		return "", "", fmt.Errorf("rendering host document: %w", err)
	}

	prefix, suffix, found := strings.Cut(rendered, "<!--"+marker.Data+"-->")
	if !found {
		return "", "", ErrMountPointMissing
	}

	return prefix, suffix, nil
}

// attachResources must be called with the lock held, before mounting.
func (s *Shell) attachResources() {
	head, body := s.doc.head(), s.doc.body()

	for _, r := range s.resources {
		switch {
		case r.Kind == Stylesheet && head != nil:
			head.AppendChild(r.node())
		case r.Kind == Script && body != nil:
			body.AppendChild(r.node())
		}
	}
}
