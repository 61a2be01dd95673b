// Package preset provides the theme declarations and demo page built into
// the binary.
package preset

import (
	"embed"
	"sort"
	"strings"

	"github.com/jmylchreest/brandkit/internal/config"
	"github.com/jmylchreest/brandkit/internal/theme"
)

//go:embed themes/*.yaml
var EmbeddedThemes embed.FS

//go:embed pages/demo.html
var demoPage []byte

// GetEmbeddedTheme returns an embedded theme declaration by name.
// The name should not include the .yaml extension.
func GetEmbeddedTheme(name string) (theme.ConfigInput, bool) {
	path := "themes/" + name + ".yaml"
	data, err := EmbeddedThemes.ReadFile(path)
	if err != nil {
		return theme.ConfigInput{}, false
	}

	in, err := config.ParseThemeDocument(path, data)
	if err != nil {
		return theme.ConfigInput{}, false
	}
	return in, true
}

// ListEmbeddedThemes returns the names of all embedded theme declarations.
func ListEmbeddedThemes() []string {
	entries, err := EmbeddedThemes.ReadDir("themes")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}

// DemoPage returns a copy of the embedded demo page.
func DemoPage() []byte {
	return append([]byte(nil), demoPage...)
}
