// Package dom hosts theme targets in a parsed HTML document.
//
// It provides the query capability the theme manager resolves targets
// through, backed by golang.org/x/net/html and cascadia selectors, so pages
// can be themed server-side or from the CLI exactly as the browser elements
// would theme them.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/brandkit/internal/theme"
)

// Document is a parsed HTML page.
type Document struct {
	root   *html.Node
	logger *slog.Logger
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: node, logger: slog.Default()}, nil
}

// ParseString parses an HTML document held in memory.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// SetLogger sets the logger used for selector errors.
func (d *Document) SetLogger(logger *slog.Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// Root returns the <html> element.
func (d *Document) Root() theme.Element {
	if el := d.DocumentElement(); el != nil {
		return el
	}
	return nil
}

// Body returns the <body> element.
func (d *Document) Body() theme.Element {
	if el := d.BodyElement(); el != nil {
		return el
	}
	return nil
}

// DocumentElement returns the <html> element, or nil.
func (d *Document) DocumentElement() *Element {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			return &Element{node: c}
		}
	}
	return nil
}

// BodyElement returns the <body> element, or nil.
func (d *Document) BodyElement() *Element {
	doc := d.DocumentElement()
	if doc == nil {
		return nil
	}
	for c := doc.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Body {
			return &Element{node: c}
		}
	}
	return nil
}

// QueryAll returns every element matching selector in document order. An
// invalid selector matches nothing.
func (d *Document) QueryAll(selector string) []theme.Element {
	matches := d.Select(selector)
	if len(matches) == 0 {
		return nil
	}
	out := make([]theme.Element, len(matches))
	for i, el := range matches {
		out[i] = el
	}
	return out
}

// Select is QueryAll with concrete element types.
func (d *Document) Select(selector string) []*Element {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		d.logger.Debug("ignoring invalid selector", "selector", selector, "error", err)
		return nil
	}

	nodes := cascadia.QueryAll(d.root, sel)
	out := make([]*Element, len(nodes))
	for i, n := range nodes {
		out[i] = &Element{node: n}
	}
	return out
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document to a string.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

var _ theme.TargetResolver = (*Document)(nil)
