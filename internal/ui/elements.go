package ui

import (
	"strings"

	"golang.org/x/net/html"
)

// ID sets the id attribute.
func ID(id string) Attr { return Attr{Key: "id", Value: id} }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return Attr{Key: "class", Value: strings.Join(classes, " ")} }

// Href sets the href attribute.
func Href(href string) Attr { return Attr{Key: "href", Value: href} }

// Type sets the type attribute.
func Type(t string) Attr { return Attr{Key: "type", Value: t} }

// Name sets the name attribute.
func Name(name string) Attr { return Attr{Key: "name", Value: name} }

// For sets the for attribute.
func For(id string) Attr { return Attr{Key: "for", Value: id} }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return Attr{Key: "placeholder", Value: text} }

// Role sets the role attribute.
func Role(role string) Attr { return Attr{Key: "role", Value: role} }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return Attr{Key: "aria-label", Value: label} }

// AriaCurrent sets the aria-current attribute.
func AriaCurrent(value string) Attr { return Attr{Key: "aria-current", Value: value} }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return Attr{Key: "data-" + key, Value: value} }

// Bool sets a boolean attribute (rendered with an empty value).
func Bool(key string) Attr { return Attr{Key: key} }

// If returns a when cond holds, otherwise an empty attribute that is ignored.
func If(cond bool, a Attr) Attr {
	if cond {
		return a
	}

	return Attr{}
}

// Element constructors used by the pages and the layout.

func Div(args ...any) *html.Node      { return El("div", args...) }
func Span(args ...any) *html.Node     { return El("span", args...) }
func P(args ...any) *html.Node        { return El("p", args...) }
func H1(args ...any) *html.Node       { return El("h1", args...) }
func H2(args ...any) *html.Node       { return El("h2", args...) }
func A(args ...any) *html.Node        { return El("a", args...) }
func I(args ...any) *html.Node        { return El("i", args...) }
func Nav(args ...any) *html.Node      { return El("nav", args...) }
func Main(args ...any) *html.Node     { return El("main", args...) }
func Ul(args ...any) *html.Node       { return El("ul", args...) }
func Li(args ...any) *html.Node       { return El("li", args...) }
func Form(args ...any) *html.Node     { return El("form", args...) }
func Label(args ...any) *html.Node    { return El("label", args...) }
func Input(args ...any) *html.Node    { return El("input", args...) }
func Textarea(args ...any) *html.Node { return El("textarea", args...) }
func Button(args ...any) *html.Node   { return El("button", args...) }
func Table(args ...any) *html.Node    { return El("table", args...) }
func Thead(args ...any) *html.Node    { return El("thead", args...) }
func Tbody(args ...any) *html.Node    { return El("tbody", args...) }
func Tr(args ...any) *html.Node       { return El("tr", args...) }
func Th(args ...any) *html.Node       { return El("th", args...) }
func Td(args ...any) *html.Node       { return El("td", args...) }
func Code(args ...any) *html.Node     { return El("code", args...) }
func Dl(args ...any) *html.Node       { return El("dl", args...) }
func Dt(args ...any) *html.Node       { return El("dt", args...) }
func Dd(args ...any) *html.Node       { return El("dd", args...) }

// Icon renders a Bootstrap Icons glyph.
func Icon(name string) *html.Node {
	return I(Class("bi", "bi-"+name), Attr{Key: "aria-hidden", Value: "true"})
}
