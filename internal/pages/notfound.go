package pages

import (
	"context"

	"golang.org/x/net/html"

	"github.com/jsamuelsen/formdesk/internal/domain"
	"github.com/jsamuelsen/formdesk/internal/ui"
)

// NotFound is rendered into the outlet when no route matches. It receives
// the requested location as the "path" parameter.
type NotFound struct{}

// Render implements domain.Page.
func (NotFound) Render(_ context.Context, params domain.Params) (*html.Node, error) {
	return ui.Div(ui.ID("not-found"), ui.Class("text-center", "py-5"),
		ui.H1(ui.Class("display-6"), ui.Icon("compass"), " Page not found"),
		ui.P(ui.Class("text-muted"), "Nothing is routed at ", ui.Code(params.Get("path")), "."),
		ui.A(ui.Href("/"), ui.Class("btn", "btn-outline-primary"), "Back to the form"),
	), nil
}
