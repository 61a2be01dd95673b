package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/brandkit/internal/theme"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseError reports a theme declaration that could not be decoded.
type ParseError struct {
	Path string
	Line int // 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadThemeFile reads a YAML theme declaration. The document is decoded into
// a generic map and passed through theme.ParseConfigInput, so only known keys
// reach the manager.
//
//	modes:
//	  - value: light
//	    classList: [theme-light]
//	    dataset: {colorScheme: light}
//	  - dark
//	initialMode: light
//	targets: [":root", body, brand-header]
func LoadThemeFile(path string) (theme.ConfigInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return theme.ConfigInput{}, &ParseError{Path: path, Err: err}
	}
	return ParseThemeDocument(path, data)
}

// ParseThemeDocument decodes a YAML theme declaration from data. path is only
// used in error messages.
func ParseThemeDocument(path string, data []byte) (theme.ConfigInput, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return theme.ConfigInput{}, &ParseError{Path: path, Line: extractLine(err), Err: err}
	}
	if raw == nil {
		return theme.ConfigInput{}, nil
	}
	return theme.ParseConfigInput(raw), nil
}

func extractLine(err error) int {
	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}
	line, convErr := strconv.Atoi(matches[1])
	if convErr != nil {
		return 0
	}
	return line
}
