package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func render(t *testing.T, n *html.Node) string {
	t.Helper()

	out, err := Render(n)
	require.NoError(t, err)

	return out
}

func TestEl(t *testing.T) {
	tests := []struct {
		name string
		node *html.Node
		want string
	}{
		{
			name: "attributes and text",
			node: Div(ID("x"), Class("a", "b"), "hello"),
			want: `<div id="x" class="a b">hello</div>`,
		},
		{
			name: "text is escaped",
			node: P("<script>alert(1)</script>"),
			want: `<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>`,
		},
		{
			name: "nil arguments are skipped",
			node: Span(nil, "x", nil),
			want: `<span>x</span>`,
		},
		{
			name: "later attribute replaces earlier",
			node: A(Href("/a"), Href("/b")),
			want: `<a href="/b"></a>`,
		},
		{
			name: "conditional attribute",
			node: Li(If(false, AriaCurrent("page")), If(true, Data("route", "Form"))),
			want: `<li data-route="Form"></li>`,
		},
		{
			name: "attribute slices and node slices",
			node: Ul([]Attr{Class("list"), Role("list")}, []*html.Node{Li("1"), Li("2")}),
			want: `<ul class="list" role="list"><li>1</li><li>2</li></ul>`,
		},
		{
			name: "other values are formatted",
			node: Td(42),
			want: `<td>42</td>`,
		},
		{
			name: "fragments are flattened",
			node: Div(Fragment(Span("a"), Span("b"))),
			want: `<div><span>a</span><span>b</span></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.node))
		})
	}
}

func TestRender(t *testing.T) {
	assert.Equal(t, "", render(t, nil))
	assert.Equal(t, "<b></b><i></i>", render(t, Fragment(El("b"), I())))
	assert.Equal(t, "a &amp; b", render(t, Textf("%s & %s", "a", "b")))
}

func TestAppendChildren_MovesNodes(t *testing.T) {
	child := Span("x")
	first := Div(child)
	second := Div()

	AppendChildren(second, child)

	assert.Equal(t, "<div></div>", render(t, first))
	assert.Equal(t, "<div><span>x</span></div>", render(t, second))
}

func TestFind(t *testing.T) {
	tree := Div(
		Nav(A(ID("home"), Href("/"))),
		Main(Div(ID("outlet"), Code("x"))),
	)

	outlet := FindByID(tree, "outlet")
	require.NotNil(t, outlet)
	assert.Equal(t, "div", outlet.Data)

	assert.Nil(t, FindByID(tree, "missing"))
	assert.Nil(t, FindByID(nil, "outlet"))

	code := FindByTag(tree, "CODE")
	require.NotNil(t, code)
	assert.Equal(t, "x", code.FirstChild.Data)
	assert.Nil(t, FindByTag(nil, "code"))

	home := FindByID(tree, "home")
	assert.Equal(t, "/", AttrValue(home, "href"))
	assert.Equal(t, "", AttrValue(home, "class"))
}

func TestIcon(t *testing.T) {
	assert.Equal(t, `<i class="bi bi-gear" aria-hidden="true"></i>`, render(t, Icon("gear")))
}
