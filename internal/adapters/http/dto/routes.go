package dto

// Output formats accepted by the route table endpoint.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// RouteTableQuery is the query of GET /api/v1/routes.
type RouteTableQuery struct {
	Output string `form:"output" validate:"omitempty,oneof=json yaml"`
}

// ResolveQuery is the query of GET /api/v1/routes/resolve.
type ResolveQuery struct {
	Path string `form:"path" validate:"required,notempty,startswith=/"`
}

// RouteResponse describes one route table entry.
type RouteResponse struct {
	Path string `json:"path" yaml:"path"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Page string `json:"page,omitempty" yaml:"page,omitempty"`
}

// RouteTableResponse is the ordered route table.
type RouteTableResponse struct {
	Routes   []RouteResponse `json:"routes" yaml:"routes"`
	Fallback string          `json:"fallback" yaml:"fallback"`
}

// ResolveResponse is the outcome of resolving a location. Route is nil
// and NotFound is true when nothing matched.
type ResolveResponse struct {
	Location string            `json:"location"`
	NotFound bool              `json:"notFound"`
	Route    *RouteResponse    `json:"route,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
}

// HrefResponse is a location built from a route name.
type HrefResponse struct {
	Name string `json:"name"`
	Href string `json:"href"`
}
