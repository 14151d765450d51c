package pages

import (
	"context"

	"golang.org/x/net/html"

	"github.com/jsamuelsen/formdesk/internal/domain"
	"github.com/jsamuelsen/formdesk/internal/ui"
)

// Admin shows read-only application introspection: the route table and
// build information.
type Admin struct {
	catalog *Catalog
	info    Info
}

// Render implements domain.Page.
func (a *Admin) Render(_ context.Context, _ domain.Params) (*html.Node, error) {
	rows := make([]*html.Node, 0, len(a.catalog.defs))
	for _, d := range a.catalog.Definitions() {
		name := d.Name
		if name == "" {
			name = "-"
		}

		rows = append(rows, ui.Tr(
			ui.Td(ui.Code(d.Path)),
			ui.Td(name),
			ui.Td(d.Page),
		))
	}

	return ui.Div(
		ui.H1(ui.Class("h3", "mb-4"), ui.Icon("speedometer2"), " Admin"),
		ui.Div(ui.Class("card", "mb-4"),
			ui.Div(ui.Class("card-header"), ui.Icon("signpost-split"), " Routes"),
			ui.Table(ui.ID("route-table"), ui.Class("table", "table-sm", "mb-0"),
				ui.Thead(ui.Tr(ui.Th("Path"), ui.Th("Name"), ui.Th("Page"))),
				ui.Tbody(rows),
			),
		),
		ui.Div(ui.Class("card"),
			ui.Div(ui.Class("card-header"), ui.Icon("info-circle"), " Build"),
			ui.Dl(ui.ID("build-info"), ui.Class("row", "card-body", "mb-0"),
				term("Version", a.info.Version),
				term("Commit", a.info.Commit),
				term("Built", a.info.BuildTime),
				term("Environment", a.info.Environment),
			),
		),
	), nil
}

func term(label, value string) *html.Node {
	if value == "" {
		value = "unknown"
	}

	return ui.Fragment(
		ui.Dt(ui.Class("col-sm-3"), label),
		ui.Dd(ui.Class("col-sm-9"), value),
	)
}
