package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

// PlainFormatter formats listings for people: the active mode is starred and
// non-default attribute values and classes are shown.
type PlainFormatter struct {
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) (*PlainFormatter, error) {
	tmpl, err := parseTemplate("plain", opts.Template)
	if err != nil {
		return nil, err
	}
	return &PlainFormatter{template: tmpl}, nil
}

// Format writes the listing as plain text.
func (f *PlainFormatter) Format(w io.Writer, l Listing) error {
	return formatModes(w, l, f.template, plainLine)
}

func plainLine(d templateData) string {
	var sb strings.Builder
	if d.Active {
		sb.WriteString("* ")
	} else {
		sb.WriteString("  ")
	}
	sb.WriteString(d.Mode.Value)
	if d.Mode.AttributeValue != "" && d.Mode.AttributeValue != d.Mode.Value {
		sb.WriteString(fmt.Sprintf(" (%s=%q)", d.Attribute, d.Mode.AttributeValue))
	}
	if len(d.Mode.ClassList) > 0 {
		sb.WriteString("  ." + strings.Join(d.Mode.ClassList, " ."))
	}
	return sb.String()
}
