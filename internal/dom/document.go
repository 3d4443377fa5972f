// Package dom is a small document object model over golang.org/x/net/html.
//
// Document answers raw lookups against the parsed tree and dispatches events
// to document-level listeners. Cache sits in front of a Document and memoizes
// lookups by key.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Source is the set of uncached lookups a Cache resolves against.
type Source interface {
	GetElementByID(id string) *html.Node
	QuerySelector(selector string) *html.Node
	QuerySelectorAll(selector string) []*html.Node
	GetElementsByClassName(class string) []*html.Node
	FormInputs() []*html.Node
	CreateElement(tag string) *html.Node
	AddEventListener(eventType string, fn Listener)
}

// Document is a parsed HTML page plus its event listeners.
type Document struct {
	doc       *goquery.Document
	listeners map[string][]Listener
}

var _ Source = (*Document)(nil)

// Parse reads an HTML page into a Document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	return &Document{
		doc:       doc,
		listeners: make(map[string][]Listener),
	}, nil
}

// ParseString is Parse for an in-memory page.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// NewDocument wraps an already parsed tree.
func NewDocument(root *html.Node) *Document {
	return &Document{
		doc:       goquery.NewDocumentFromNode(root),
		listeners: make(map[string][]Listener),
	}
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return first(d.doc.Selection)
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *html.Node {
	return d.QuerySelector("body")
}

// GetElementByID returns the first element whose id attribute equals id.
func (d *Document) GetElementByID(id string) *html.Node {
	return first(d.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("id", "") == id
	}))
}

// QuerySelector returns the first element matching a CSS selector. An invalid
// selector matches nothing.
func (d *Document) QuerySelector(selector string) *html.Node {
	return first(d.doc.Find(selector))
}

// QuerySelectorAll returns every element matching a CSS selector in document
// order.
func (d *Document) QuerySelectorAll(selector string) []*html.Node {
	return d.doc.Find(selector).Nodes
}

// GetElementsByClassName returns every element carrying class.
func (d *Document) GetElementsByClassName(class string) []*html.Node {
	return d.doc.Find("[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.HasClass(class)
	}).Nodes
}

// FormInputs returns every input, select and textarea element.
func (d *Document) FormInputs() []*html.Node {
	return d.QuerySelectorAll("input, select, textarea")
}

// CreateElement returns a detached element.
func (d *Document) CreateElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// Render writes the current tree as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.Root())
}
