package shell

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/net/html"

	"github.com/jsamuelsen/formdesk/internal/ui"
)

//go:embed index.html
var defaultDocument []byte

// Document is the host document the shell mounts into. A document has a
// single owner: once a shell has mounted into it, no other shell can.
type Document struct {
	root *html.Node

	mu    sync.Mutex
	owner string
}

// ParseDocument parses a host document.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing host document: %w", err)
	}

	return &Document{root: root}, nil
}

// DefaultDocument returns a fresh copy of the built-in host document,
// which carries a single mount point with id "app".
func DefaultDocument() *Document {
	doc, err := ParseDocument(bytes.NewReader(defaultDocument))
	if err != nil {
		// The embedded document is static; html.Parse only fails on reader errors.
		panic(err)
	}

	return doc
}

// LoadDocument reads a host document from path, or returns the built-in
// document when path is empty.
func LoadDocument(path string) (*Document, error) {
	if path == "" {
		return DefaultDocument(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening host document: %w", err)
	}
	defer f.Close()

	return ParseDocument(f)
}

func (d *Document) head() *html.Node {
	return ui.FindByTag(d.root, "head")
}

func (d *Document) body() *html.Node {
	return ui.FindByTag(d.root, "body")
}

func (d *Document) setTitle(title string) {
	head := d.head()
	if head == nil {
		return
	}

	el := ui.FindByTag(head, "title")
	if el == nil {
		el = ui.El("title")
		head.AppendChild(el)
	}

	for c := el.FirstChild; c != nil; c = el.FirstChild {
		el.RemoveChild(c)
	}

	el.AppendChild(ui.Text(title))
}

// claim records selector as the document's mount point. It fails with
// ErrAlreadyMounted when another mount already owns the document.
func (d *Document) claim(selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.owner != "" {
		return fmt.Errorf("%w: document already mounted at %s", ErrAlreadyMounted, d.owner)
	}

	d.owner = selector

	return nil
}

func (d *Document) release() {
	d.mu.Lock()
	d.owner = ""
	d.mu.Unlock()
}
