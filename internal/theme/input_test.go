package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigInput(t *testing.T) {
	in := ParseConfigInput(map[string]any{
		"initial_mode": "dark",
		"attribute":    "data-mode",
		"targets":      []any{":root", "body", ".brand-header"},
		"modes": []any{
			"light",
			map[string]any{
				"value":           "dark",
				"attribute_value": "night",
				"class_list":      []any{"theme-dark", "inverted"},
				"dataset":         map[string]any{"colorScheme": "dark", "contrast": 2},
			},
		},
		"unknown": "ignored",
	})

	assert.Equal(t, "dark", in.InitialMode)
	assert.Equal(t, "data-mode", in.Attribute)
	assert.Equal(t, []string{":root", "body", ".brand-header"}, in.Targets)
	require.Len(t, in.Modes, 2)
	assert.Equal(t, Mode{Value: "light"}, in.Modes[0])
	assert.Equal(t, Mode{
		Value:          "dark",
		AttributeValue: "night",
		ClassList:      []string{"theme-dark", "inverted"},
		Dataset:        map[string]string{"colorScheme": "dark", "contrast": "2"},
	}, in.Modes[1])
}

func TestParseConfigInput_CamelCase(t *testing.T) {
	in := ParseConfigInput(map[string]any{
		"initialMode": "b",
		"targets":     "main",
		"modes": []any{
			map[string]any{"value": "a", "attributeValue": "A", "classList": []any{"x"}},
			map[string]any{"value": "b", "classes": []any{"y"}},
		},
	})

	assert.Equal(t, "b", in.InitialMode)
	assert.Equal(t, []string{"main"}, in.Targets)
	assert.Equal(t, "A", in.Modes[0].AttributeValue)
	assert.Equal(t, []string{"y"}, in.Modes[1].ClassList)
}

func TestParseConfigInput_DropsReservedKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"top level proto", map[string]any{"__proto__": map[string]any{"modes": []any{"evil"}}}},
		{"top level constructor", map[string]any{"constructor": map[string]any{"prototype": "x"}}},
		{"prototype", map[string]any{"prototype": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ConfigInput{}, ParseConfigInput(tt.raw))
		})
	}
}

func TestParseConfigInput_IgnoresMalformedValues(t *testing.T) {
	in := ParseConfigInput(map[string]any{
		"modes":   "not-a-list",
		"targets": 42,
	})
	assert.Nil(t, in.Modes)
	assert.Nil(t, in.Targets)
}

func TestConfigInput_EmptyTargetsClearsDefaults(t *testing.T) {
	cfg := ConfigInput{Targets: []string{}}.merge(DefaultConfig())
	assert.Empty(t, cfg.Targets)

	cfg = ConfigInput{}.merge(DefaultConfig())
	assert.Equal(t, []string{TargetRoot, TargetBody}, cfg.Targets)
}

func TestConfig_Next(t *testing.T) {
	cfg := ConfigInput{Modes: brandModes()}.merge(DefaultConfig())

	assert.Equal(t, "dark", cfg.Next("light"))
	assert.Equal(t, "light", cfg.Next("contrast"))
	assert.Equal(t, "light", cfg.Next("unknown"))
}

func TestConfig_ResolveMode(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "dark", cfg.ResolveMode("dark"))
	assert.Equal(t, "light", cfg.ResolveMode("Dark"), "match is exact")
	assert.Equal(t, "light", cfg.ResolveMode(""))
	assert.Equal(t, "", Config{}.ResolveMode("x"))
}

func TestMode_Equal(t *testing.T) {
	a := Mode{Value: "a", AttributeValue: "a", ClassList: []string{"x"}, Dataset: map[string]string{"k": "v"}}
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Dataset["k"] = "w"
	assert.False(t, a.Equal(b))
	assert.Equal(t, "v", a.Dataset["k"], "clone is deep")
}
