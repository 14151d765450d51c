// Package pages holds the page components and the catalog that binds route
// definitions to them by key.
package pages

import (
	"sort"

	"github.com/jsamuelsen/formdesk/internal/domain"
)

// Page keys understood by the default catalog.
const (
	KeyForm     = "form"
	KeyAdmin    = "admin"
	KeyNotFound = "not_found"
)

// Info is the build and environment information shown by the Admin page.
type Info struct {
	Version     string
	Commit      string
	BuildTime   string
	Environment string
}

// Definition is a route as declared in configuration: the page is named by
// catalog key rather than referenced directly.
type Definition struct {
	Path string `json:"path" yaml:"path"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Page string `json:"page" yaml:"page"`
}

// Catalog maps page keys to components. It is populated at startup and
// read-only once the route table has been built.
type Catalog struct {
	pages map[string]domain.Page
	defs  []Definition
}

// NewCatalog returns a catalog with the Form, Admin and NotFound pages.
func NewCatalog(info Info) *Catalog {
	c := &Catalog{pages: make(map[string]domain.Page)}

	c.pages[KeyForm] = Form{}
	c.pages[KeyAdmin] = &Admin{catalog: c, info: info}
	c.pages[KeyNotFound] = NotFound{}

	return c
}

// Register adds or replaces a page under key.
func (c *Catalog) Register(key string, p domain.Page) error {
	if key == "" {
		return domain.NewValidationError("page", "key is required")
	}

	if p == nil {
		return domain.NewValidationErrorWithValue("page", "component is required", key)
	}

	c.pages[key] = p

	return nil
}

// Page returns the component registered under key.
func (c *Catalog) Page(key string) (domain.Page, error) {
	p, ok := c.pages[key]
	if !ok {
		return nil, domain.NewNotFoundError("page", key)
	}

	return p, nil
}

// Keys returns the registered page keys, sorted.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.pages))
	for k := range c.pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Routes binds definitions to components, preserving order. The
// definitions are remembered for the Admin page.
func (c *Catalog) Routes(defs []Definition) ([]domain.Route, error) {
	routes := make([]domain.Route, 0, len(defs))

	for _, d := range defs {
		p, err := c.Page(d.Page)
		if err != nil {
			return nil, err
		}

		routes = append(routes, domain.Route{Path: d.Path, Name: d.Name, Component: p})
	}

	c.defs = append([]Definition(nil), defs...)

	return routes, nil
}

// Definitions returns the definitions last passed to Routes.
func (c *Catalog) Definitions() []Definition {
	return append([]Definition(nil), c.defs...)
}

// DefaultDefinitions is the application's route table.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Path: "/", Name: "Form", Page: KeyForm},
		{Path: "/admin", Name: "Admin", Page: KeyAdmin},
	}
}
