package pages

import (
	"context"

	"golang.org/x/net/html"

	"github.com/jsamuelsen/formdesk/internal/app/router"
	"github.com/jsamuelsen/formdesk/internal/ui"
)

// App is the root component: a navigation bar with a link per named,
// parameterless route and a container holding the outlet.
type App struct {
	title  string
	router *router.Router
}

// NewApp creates the root component.
func NewApp(title string, r *router.Router) *App {
	return &App{title: title, router: r}
}

// Render implements shell.Root.
func (a *App) Render(_ context.Context, outlet *html.Node, nav router.Navigation) (*html.Node, error) {
	items := make([]*html.Node, 0)

	for _, route := range a.router.Routes() {
		if route.Name == "" {
			continue
		}

		href, err := a.router.Href(route.Name, nil)
		if err != nil {
			// Routes that need parameters cannot be linked from the menu.
			continue
		}

		active := nav.RouteName() == route.Name
		classes := []string{"nav-link"}
		if active {
			classes = append(classes, "active")
		}

		items = append(items, ui.Li(ui.Class("nav-item"),
			ui.A(ui.Class(classes...), ui.Href(href), ui.Data("route", route.Name),
				ui.If(active, ui.AriaCurrent("page")),
				route.Name,
			),
		))
	}

	return ui.Fragment(
		ui.Nav(ui.Class("navbar", "navbar-expand", "navbar-dark", "bg-dark", "mb-4"),
			ui.Div(ui.Class("container"),
				ui.A(ui.Class("navbar-brand"), ui.Href("/"), ui.Icon("clipboard-check"), " ", a.title),
				ui.Ul(ui.Class("navbar-nav"), items),
			),
		),
		ui.Main(ui.ID("outlet"), ui.Class("container"), outlet),
	), nil
}
