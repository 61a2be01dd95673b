// Package output provides output formatters for mode listings.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/brandkit/internal/theme"
)

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unknown output format")

// Listing is the set of declared modes as shown to the user.
type Listing struct {
	Attribute string       `json:"attribute" yaml:"attribute"`
	Current   string       `json:"current" yaml:"current"`
	Modes     []theme.Mode `json:"modes" yaml:"modes"`
}

// NewListing builds a Listing from a configuration and the active mode.
func NewListing(cfg theme.Config, current string) Listing {
	return Listing{
		Attribute: cfg.Attribute,
		Current:   current,
		Modes:     cfg.Clone().Modes,
	}
}

// Formatter formats mode listings.
type Formatter interface {
	// Format writes the listing to the writer.
	Format(w io.Writer, l Listing) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatDmenu FormatType = "dmenu"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (FormatType, error) {
	switch f := FormatType(strings.ToLower(s)); f {
	case FormatPlain, FormatDmenu, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatPlain, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template string // Custom per-mode template for plain/dmenu format
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	switch format {
	case FormatJSON:
		return JSONFormatter{}, nil
	case FormatYAML:
		return YAMLFormatter{}, nil
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatPlain, "":
		return NewPlainFormatter(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Encode writes v in a structured format (json or yaml).
func Encode(w io.Writer, format FormatType, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q is not a structured format", ErrUnknownFormat, format)
	}
}

// JSONFormatter formats listings as JSON.
type JSONFormatter struct{}

// Format writes the listing as a JSON object.
func (JSONFormatter) Format(w io.Writer, l Listing) error {
	return Encode(w, FormatJSON, l)
}

// YAMLFormatter formats listings as YAML.
type YAMLFormatter struct{}

// Format writes the listing as a YAML document.
func (YAMLFormatter) Format(w io.Writer, l Listing) error {
	return Encode(w, FormatYAML, l)
}

// templateData is passed to custom templates, once per mode.
type templateData struct {
	Index     int
	Mode      theme.Mode
	Active    bool
	Attribute string
}

func parseTemplate(name, text string) (*template.Template, error) {
	if text == "" {
		return nil, nil
	}
	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"join": strings.Join,
	}).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	return tmpl, nil
}

// formatModes writes one line per mode, using tmpl when set.
func formatModes(w io.Writer, l Listing, tmpl *template.Template, line func(templateData) string) error {
	for i, m := range l.Modes {
		data := templateData{
			Index:     i + 1,
			Mode:      m,
			Active:    m.Value == l.Current,
			Attribute: l.Attribute,
		}
		if tmpl != nil {
			var sb strings.Builder
			if err := tmpl.Execute(&sb, data); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, sb.String()); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(w, line(data)); err != nil {
			return err
		}
	}
	return nil
}
