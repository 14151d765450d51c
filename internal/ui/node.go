// Package ui builds page trees as golang.org/x/net/html nodes.
//
// Pages compose trees with the element constructors in this package and the
// shell renders them into the host document's mount point. Arguments to an
// element constructor can be nil, Attr, []Attr, *html.Node, []*html.Node or a
// string (appended as an escaped text node).
package ui

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr is a single element attribute.
type Attr struct {
	Key   string
	Value string
}

// El creates an element node with the given tag.
func El(tag string, args ...any) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
	}
	appendArgs(n, args)

	return n
}

// Text creates an escaped text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Textf creates an escaped text node from a format string.
func Textf(format string, a ...any) *html.Node {
	return Text(fmt.Sprintf(format, a...))
}

// Fragment groups nodes without a wrapper element. The returned node is a
// document node; Render and AppendChildren flatten it.
func Fragment(children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.DocumentNode}
	for _, c := range children {
		appendChild(n, c)
	}

	return n
}

// AppendChildren moves children into parent, flattening fragments.
func AppendChildren(parent *html.Node, children ...*html.Node) {
	for _, c := range children {
		appendChild(parent, c)
	}
}

// Render writes the tree as HTML.
func Render(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}

	var buf bytes.Buffer
	if n.Type == html.DocumentNode {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", fmt.Errorf("rendering node: %w", err)
			}
		}

		return buf.String(), nil
	}

	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("rendering node: %w", err)
	}

	return buf.String(), nil
}

// FindByID returns the first element in the tree whose id attribute is id.
func FindByID(root *html.Node, id string) *html.Node {
	if root == nil {
		return nil
	}

	if root.Type == html.ElementNode && AttrValue(root, "id") == id {
		return root
	}

	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := FindByID(c, id); found != nil {
			return found
		}
	}

	return nil
}

// FindByTag returns the first element with the given tag name.
func FindByTag(root *html.Node, tag string) *html.Node {
	if root == nil {
		return nil
	}

	if root.Type == html.ElementNode && strings.EqualFold(root.Data, tag) {
		return root
	}

	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := FindByTag(c, tag); found != nil {
			return found
		}
	}

	return nil
}

// AttrValue returns the value of the named attribute, or "".
func AttrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}

func appendArgs(n *html.Node, args []any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			setAttr(n, v)
		case []Attr:
			for _, a := range v {
				setAttr(n, a)
			}
		case *html.Node:
			appendChild(n, v)
		case []*html.Node:
			for _, c := range v {
				appendChild(n, c)
			}
		case string:
			appendChild(n, Text(v))
		default:
			appendChild(n, Text(fmt.Sprint(v)))
		}
	}
}

func setAttr(n *html.Node, a Attr) {
	if a.Key == "" {
		return
	}

	for i := range n.Attr {
		if n.Attr[i].Key == a.Key {
			n.Attr[i].Val = a.Value
			return
		}
	}

	n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Value})
}

func appendChild(parent, child *html.Node) {
	if child == nil {
		return
	}

	if child.Type == html.DocumentNode {
		for c := child.FirstChild; c != nil; {
			next := c.NextSibling
			child.RemoveChild(c)
			parent.AppendChild(c)
			c = next
		}

		return
	}

	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}

	parent.AppendChild(child)
}
