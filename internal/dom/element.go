package dom

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/jmylchreest/brandkit/internal/theme"
)

// Element wraps an element node.
type Element struct {
	node *html.Node
}

// Tag returns the element's tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// Attribute returns the value of name and whether it is present.
func (e *Element) Attribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttribute sets name to value, adding the attribute if needed.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttribute deletes name.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	e.node.Attr = slices.DeleteFunc(e.node.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == name
	})
}

// Classes returns the class list in attribute order.
func (e *Element) Classes() []string {
	v, _ := e.Attribute("class")
	return strings.Fields(v)
}

// HasClass reports whether the class list contains name.
func (e *Element) HasClass(name string) bool {
	return slices.Contains(e.Classes(), name)
}

// AddClass appends names missing from the class list.
func (e *Element) AddClass(names ...string) {
	classes := e.Classes()
	changed := false
	for _, n := range names {
		if n == "" || slices.Contains(classes, n) {
			continue
		}
		classes = append(classes, n)
		changed = true
	}
	if changed {
		e.SetAttribute("class", strings.Join(classes, " "))
	}
}

// RemoveClass drops names from the class list. The class attribute is
// removed entirely once empty.
func (e *Element) RemoveClass(names ...string) {
	if _, ok := e.Attribute("class"); !ok {
		return
	}
	classes := slices.DeleteFunc(e.Classes(), func(c string) bool {
		return slices.Contains(names, c)
	})
	if len(classes) == 0 {
		e.RemoveAttribute("class")
		return
	}
	e.SetAttribute("class", strings.Join(classes, " "))
}

// Data returns the dataset entry for key (camelCase, as in element.dataset).
func (e *Element) Data(key string) (string, bool) {
	return e.Attribute(DataAttribute(key))
}

// SetData sets a dataset entry.
func (e *Element) SetData(key, value string) {
	e.SetAttribute(DataAttribute(key), value)
}

// RemoveData deletes a dataset entry.
func (e *Element) RemoveData(key string) {
	e.RemoveAttribute(DataAttribute(key))
}

// DataAttribute maps a camelCase dataset key to its data-* attribute name,
// e.g. "colorScheme" becomes "data-color-scheme".
func DataAttribute(key string) string {
	var b strings.Builder
	b.WriteString("data-")
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var _ theme.Element = (*Element)(nil)
