package shell

import (
	"golang.org/x/net/html"

	"github.com/jsamuelsen/formdesk/internal/ui"
)

// ResourceKind is how a presentation resource is attached to the document.
type ResourceKind string

const (
	// Stylesheet resources become <link rel="stylesheet"> in <head>.
	Stylesheet ResourceKind = "stylesheet"

	// Script resources become deferred <script> tags at the end of <body>.
	Script ResourceKind = "script"
)

// Resource is a global presentation resource: styling, iconography or
// interactive widget behaviour shared by every page.
type Resource struct {
	Kind ResourceKind
	URL  string
	Name string
}

// Plugin extends the shell before it is mounted.
type Plugin interface {
	Install(s *Shell) error
}

// PluginFunc adapts a function to the Plugin interface.
type PluginFunc func(s *Shell) error

// Install implements Plugin.
func (f PluginFunc) Install(s *Shell) error {
	return f(s)
}

// Resources returns a plugin that attaches the given resources.
func Resources(resources ...Resource) Plugin {
	return PluginFunc(func(s *Shell) error {
		for _, r := range resources {
			if err := s.AddResource(r); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r Resource) node() *html.Node {
	if r.Kind == Script {
		return ui.El("script", ui.Attr{Key: "src", Value: r.URL}, ui.Bool("defer"))
	}

	return ui.El("link", ui.Attr{Key: "rel", Value: "stylesheet"}, ui.Href(r.URL))
}
