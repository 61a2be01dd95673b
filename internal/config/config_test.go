package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/brandkit/internal/theme"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.Theme.File)
	assert.Empty(t, cfg.Theme.Mode)
	assert.False(t, cfg.Theme.FollowSystem)
	assert.True(t, cfg.Persistence.Enabled)
	assert.Equal(t, "file", cfg.Persistence.Backend)
	assert.Empty(t, cfg.Persistence.Key)
	assert.Equal(t, 150*time.Millisecond, cfg.Watch.DebounceDuration())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[theme]
file = "theme.yaml"
preset = "contrast"
mode = "dark"
follow_system = true

[persistence]
enabled = true
backend = "sqlite"
key = "acme-theme"
path = "/tmp/acme.db"

[watch]
debounce = "1s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "theme.yaml"), cfg.Theme.File)
	assert.Equal(t, "contrast", cfg.Theme.Preset)
	assert.Equal(t, "dark", cfg.Theme.Mode)
	assert.True(t, cfg.Theme.FollowSystem)
	assert.Equal(t, "sqlite", cfg.Persistence.Backend)
	assert.Equal(t, "acme-theme", cfg.Persistence.Key)
	assert.Equal(t, "/tmp/acme.db", cfg.Persistence.Path)
	assert.Equal(t, time.Second, cfg.Watch.DebounceDuration())
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[theme]\nmode = \"light\"\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "light", cfg.Theme.Mode)

	// Unchanged fields keep their defaults
	assert.True(t, cfg.Persistence.Enabled)
	assert.Equal(t, DefaultBackend, cfg.Persistence.Backend)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
		tag     string
	}{
		{"unknown backend", "[persistence]\nbackend = \"redis\"\n", "persistence.backend", "oneof"},
		{"bad key", "[persistence]\nkey = \"has space\"\n", "persistence.key", "storage_key"},
		{"bad debounce", "[watch]\ndebounce = \"soon\"\n", "watch.debounce", "duration"},
		{"negative debounce", "[watch]\ndebounce = \"-1s\"\n", "watch.debounce", "duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.tag, verr.Tag)
		})
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Theme.Mode = "dark"
	cfg.Persistence.Backend = "memory"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", loaded.Theme.Mode)
	assert.Equal(t, "memory", loaded.Persistence.Backend)
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "brandkit", "config.toml"), ConfigPath())
}

func TestLoadThemeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	content := `
modes:
  - value: light
    classList: [brand-light]
    dataset:
      colorScheme: light
      __proto__: polluted
  - value: contrast
    attribute_value: hc
  - dark
initialMode: contrast
targets: [":root", body, brand-header]
attribute: data-brand
extra: ignored
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	in, err := LoadThemeFile(path)
	require.NoError(t, err)

	require.Len(t, in.Modes, 3)
	assert.Equal(t, "light", in.Modes[0].Value)
	assert.Equal(t, []string{"brand-light"}, in.Modes[0].ClassList)
	assert.Equal(t, map[string]string{"colorScheme": "light"}, in.Modes[0].Dataset)
	assert.Equal(t, "hc", in.Modes[1].AttributeValue)
	assert.Equal(t, "dark", in.Modes[2].Value)
	assert.Equal(t, "contrast", in.InitialMode)
	assert.Equal(t, []string{theme.TargetRoot, theme.TargetBody, "brand-header"}, in.Targets)
	assert.Equal(t, "data-brand", in.Attribute)
}

func TestLoadThemeFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadThemeFile(filepath.Join(t.TempDir(), "absent.yaml"))
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("syntax error carries line", func(t *testing.T) {
		_, err := ParseThemeDocument("theme.yaml", []byte("modes:\n\t- light\n"))
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Greater(t, perr.Line, 0)
		assert.Contains(t, err.Error(), "theme.yaml:")
	})

	t.Run("empty document", func(t *testing.T) {
		in, err := ParseThemeDocument("theme.yaml", nil)
		require.NoError(t, err)
		assert.Equal(t, theme.ConfigInput{}, in)
	})
}
