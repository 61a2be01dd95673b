package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/brandkit/internal/theme"
)

const testPage = `<!DOCTYPE html>
<html lang="en">
<head><title>Demo</title></head>
<body class="page">
  <brand-header class="chrome"></brand-header>
  <main><section class="card">one</section><section class="card">two</section></main>
  <brand-footer class="chrome"></brand-footer>
</body>
</html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(testPage)
	require.NoError(t, err)
	return doc
}

func TestDocument_RootAndBody(t *testing.T) {
	doc := mustParse(t)

	require.NotNil(t, doc.DocumentElement())
	assert.Equal(t, "html", doc.DocumentElement().Tag())
	require.NotNil(t, doc.BodyElement())
	assert.Equal(t, "body", doc.BodyElement().Tag())
	assert.NotNil(t, doc.Root())
	assert.NotNil(t, doc.Body())
}

func TestDocument_QueryAll(t *testing.T) {
	doc := mustParse(t)

	tests := []struct {
		selector string
		expected int
	}{
		{".card", 2},
		{"brand-header, brand-footer", 2},
		{"main > section.card:first-child", 1},
		{".missing", 0},
		{"[[invalid", 0},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			assert.Len(t, doc.QueryAll(tt.selector), tt.expected)
		})
	}
}

func TestElement_Classes(t *testing.T) {
	doc := mustParse(t)
	body := doc.BodyElement()

	body.AddClass("theme-dark", "page", "")
	assert.Equal(t, []string{"page", "theme-dark"}, body.Classes())
	assert.True(t, body.HasClass("theme-dark"))

	body.RemoveClass("page", "theme-dark")
	_, ok := body.Attribute("class")
	assert.False(t, ok, "empty class attribute is removed")

	body.RemoveClass("absent")
	assert.Empty(t, body.Classes())
}

func TestElement_Dataset(t *testing.T) {
	doc := mustParse(t)
	root := doc.DocumentElement()

	root.SetData("colorScheme", "dark")
	v, ok := root.Attribute("data-color-scheme")
	require.True(t, ok)
	assert.Equal(t, "dark", v)

	v, ok = root.Data("colorScheme")
	require.True(t, ok)
	assert.Equal(t, "dark", v)

	root.RemoveData("colorScheme")
	_, ok = root.Data("colorScheme")
	assert.False(t, ok)
}

func TestDataAttribute(t *testing.T) {
	tests := map[string]string{
		"theme":        "data-theme",
		"colorScheme":  "data-color-scheme",
		"brandAccentX": "data-brand-accent-x",
	}
	for key, expected := range tests {
		t.Run(key, func(t *testing.T) {
			assert.Equal(t, expected, DataAttribute(key))
		})
	}
}

func TestDocument_ThemedByManager(t *testing.T) {
	doc := mustParse(t)
	m := theme.NewManager(doc)
	m.ConfigureTheme(theme.ConfigInput{
		Targets: []string{theme.TargetRoot, theme.TargetBody, ".chrome"},
	})

	m.SetThemeMode("dark")
	out := doc.String()

	assert.Contains(t, out, `<html lang="en" data-theme="dark" class="theme-dark" data-color-scheme="dark">`)
	assert.Contains(t, out, `<body class="page theme-dark" data-theme="dark" data-color-scheme="dark">`)
	assert.Equal(t, 2, strings.Count(out, `class="chrome theme-dark"`))

	m.SetThemeMode("light")
	out = doc.String()
	assert.NotContains(t, out, "theme-dark")
	assert.Contains(t, out, `<body class="page theme-light" data-theme="light" data-color-scheme="light">`)

	// Idempotent re-application leaves the markup untouched.
	m.SetThemeMode("light")
	assert.Equal(t, out, doc.String())
}

func TestThemePage(t *testing.T) {
	cfg := theme.DefaultConfig()
	cfg.Targets = []string{theme.TargetBody}

	var out strings.Builder
	applied, err := ThemePage(strings.NewReader(testPage), &out, cfg, "dark", nil)
	require.NoError(t, err)

	assert.Equal(t, "dark", applied)
	assert.Contains(t, out.String(), `<body class="page theme-dark" data-theme="dark" data-color-scheme="dark">`)
	assert.Contains(t, out.String(), `<html lang="en">`)
}

func TestThemePage_UnknownModeFallsBack(t *testing.T) {
	cfg := theme.DefaultConfig()
	cfg.InitialMode = "dark"

	var out strings.Builder
	applied, err := ThemePage(strings.NewReader(testPage), &out, cfg, "neon", nil)
	require.NoError(t, err)
	assert.Equal(t, "dark", applied)
	assert.Contains(t, out.String(), `data-theme="dark"`)
}

func TestThemePage_ZeroTargets(t *testing.T) {
	cfg := theme.DefaultConfig()
	cfg.Targets = nil

	var out strings.Builder
	_, err := ThemePage(strings.NewReader(testPage), &out, cfg, "dark", nil)
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "data-theme")
}
