package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/formdesk/internal/adapters/http/dto"
	"github.com/jsamuelsen/formdesk/internal/app/router"
	"github.com/jsamuelsen/formdesk/internal/domain"
	"github.com/jsamuelsen/formdesk/internal/pages"
)

// RoutesHandler exposes the route table read-only: listing, resolving a
// location and building a location from a route name.
type RoutesHandler struct {
	router   *router.Router
	pageKeys map[string]string
	fallback string
}

// NewRoutesHandler creates a route API handler. defs supply the page keys
// shown next to each route; fallback is the not found policy in effect.
func NewRoutesHandler(r *router.Router, defs []pages.Definition, fallback string) *RoutesHandler {
	keys := make(map[string]string, len(defs))
	for _, d := range defs {
		keys[d.Path] = d.Page
	}

	return &RoutesHandler{router: r, pageKeys: keys, fallback: fallback}
}

// Table builds the route table response in declaration order.
func (h *RoutesHandler) Table() dto.RouteTableResponse {
	routes := h.router.Routes()

	resp := dto.RouteTableResponse{
		Routes:   make([]dto.RouteResponse, 0, len(routes)),
		Fallback: h.fallback,
	}

	for _, r := range routes {
		resp.Routes = append(resp.Routes, h.route(r))
	}

	return resp
}

func (h *RoutesHandler) route(r domain.Route) dto.RouteResponse {
	return dto.RouteResponse{Path: r.Path, Name: r.Name, Page: h.pageKeys[r.Path]}
}

// List handles GET /api/v1/routes. ?output=yaml switches the encoding.
func (h *RoutesHandler) List(c *gin.Context) {
	var q dto.RouteTableQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	table := h.Table()

	if q.Output == dto.OutputYAML {
		out, err := yaml.Marshal(table)
		if err != nil {
			dto.HandleError(c, err)
			return
		}

		c.Data(http.StatusOK, "application/yaml; charset=utf-8", out)

		return
	}

	c.JSON(http.StatusOK, table)
}

// Resolve handles GET /api/v1/routes/resolve?path=. An unmatched location
// is a successful lookup with notFound set, not an error.
func (h *RoutesHandler) Resolve(c *gin.Context) {
	var q dto.ResolveQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	match, err := h.router.Resolve(q.Path)
	if err != nil && !errors.Is(err, router.ErrRouteNotFound) {
		dto.HandleError(c, err)
		return
	}

	resp := dto.ResolveResponse{Location: q.Path, NotFound: err != nil}
	if err == nil {
		route := h.route(match.Route)
		resp.Route = &route
		resp.Params = match.Params
	}

	c.JSON(http.StatusOK, resp)
}

// Href handles GET /api/v1/href/:name. Query parameters fill the route's
// path parameters.
func (h *RoutesHandler) Href(c *gin.Context) {
	name := c.Param("name")

	params := make(domain.Params)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	href, err := h.router.Href(name, params)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.HrefResponse{Name: name, Href: href})
}

// RegisterRoutes registers the route API on rg.
func (h *RoutesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/routes", h.List)
	rg.GET("/routes/resolve", h.Resolve)
	rg.GET("/href/:name", h.Href)
}
