package output

import (
	"io"
	"text/template"
)

// DmenuFormatter writes bare mode values, one per line, for dmenu/rofi/fuzzel:
//
//	brandkit mode list -f dmenu | rofi -dmenu | xargs brandkit mode set
type DmenuFormatter struct {
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) (*DmenuFormatter, error) {
	tmpl, err := parseTemplate("dmenu", opts.Template)
	if err != nil {
		return nil, err
	}
	return &DmenuFormatter{template: tmpl}, nil
}

// Format writes the listing in dmenu format (one per line).
func (f *DmenuFormatter) Format(w io.Writer, l Listing) error {
	return formatModes(w, l, f.template, func(d templateData) string {
		return d.Mode.Value
	})
}
