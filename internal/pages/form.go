package pages

import (
	"context"

	"golang.org/x/net/html"

	"github.com/jsamuelsen/formdesk/internal/domain"
	"github.com/jsamuelsen/formdesk/internal/ui"
)

// Form is the landing page: a request form. Submission is handled in the
// browser; the server only renders the markup.
type Form struct{}

// Render implements domain.Page.
func (Form) Render(_ context.Context, _ domain.Params) (*html.Node, error) {
	return ui.Div(ui.Class("row", "justify-content-center"),
		ui.Div(ui.Class("col-lg-8"),
			ui.H1(ui.Class("h3", "mb-4"), ui.Icon("ui-checks"), " Submit a request"),
			ui.Form(ui.ID("request-form"), ui.Class("card", "card-body", "shadow-sm"), ui.Bool("novalidate"),
				field("name", "Name", "text", "Jane Doe"),
				field("email", "Email", "email", "jane@example.com"),
				ui.Div(ui.Class("mb-3"),
					ui.Label(ui.For("message"), ui.Class("form-label"), "Message"),
					ui.Textarea(ui.ID("message"), ui.Name("message"), ui.Class("form-control"), ui.Attr{Key: "rows", Value: "5"}),
				),
				ui.Button(ui.Type("submit"), ui.Class("btn", "btn-primary"), ui.Icon("send"), " Send"),
			),
		),
	), nil
}

func field(id, label, typ, placeholder string) *html.Node {
	return ui.Div(ui.Class("mb-3"),
		ui.Label(ui.For(id), ui.Class("form-label"), label),
		ui.Input(ui.ID(id), ui.Name(id), ui.Type(typ), ui.Class("form-control"), ui.Placeholder(placeholder), ui.Bool("required")),
	)
}
