package theme

import (
	"maps"
	"slices"
)

// Target sentinels. They are resolved through TargetResolver.Root and
// TargetResolver.Body instead of a selector query.
const (
	TargetRoot = ":root"
	TargetBody = "body"
)

// Default configuration values.
const (
	DefaultAttribute = "data-theme"
	ModeLight        = "light"
	ModeDark         = "dark"
)

// Mode is a named visual theme variant.
type Mode struct {
	Value          string            `json:"value" yaml:"value"`
	AttributeValue string            `json:"attributeValue" yaml:"attributeValue"`
	ClassList      []string          `json:"classList,omitempty" yaml:"classList,omitempty"`
	Dataset        map[string]string `json:"dataset,omitempty" yaml:"dataset,omitempty"`
}

// Config is the active theme configuration. Modes is never empty once
// normalised and InitialMode always names one of them.
type Config struct {
	Modes       []Mode   `json:"modes" yaml:"modes"`
	InitialMode string   `json:"initialMode" yaml:"initialMode"`
	Targets     []string `json:"targets" yaml:"targets"`
	Attribute   string   `json:"attribute" yaml:"attribute"`
}

// DefaultModes returns the built-in light/dark pair.
func DefaultModes() []Mode {
	return []Mode{
		{
			Value:          ModeLight,
			AttributeValue: ModeLight,
			ClassList:      []string{"theme-light"},
			Dataset:        map[string]string{"colorScheme": ModeLight},
		},
		{
			Value:          ModeDark,
			AttributeValue: ModeDark,
			ClassList:      []string{"theme-dark"},
			Dataset:        map[string]string{"colorScheme": ModeDark},
		},
	}
}

// DefaultConfig returns a fresh copy of the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Modes:       DefaultModes(),
		InitialMode: ModeLight,
		Targets:     []string{TargetRoot, TargetBody},
		Attribute:   DefaultAttribute,
	}
}

// Clone returns a deep copy of the mode.
func (m Mode) Clone() Mode {
	out := Mode{
		Value:          m.Value,
		AttributeValue: m.AttributeValue,
		ClassList:      slices.Clone(m.ClassList),
	}
	if m.Dataset != nil {
		out.Dataset = maps.Clone(m.Dataset)
	}
	return out
}

// Equal reports whether two modes produce the same DOM markers.
func (m Mode) Equal(other Mode) bool {
	return m.Value == other.Value &&
		m.AttributeValue == other.AttributeValue &&
		slices.Equal(m.ClassList, other.ClassList) &&
		maps.Equal(m.Dataset, other.Dataset)
}

// Clone returns a deep copy of the configuration.
func (c Config) Clone() Config {
	out := Config{
		InitialMode: c.InitialMode,
		Targets:     slices.Clone(c.Targets),
		Attribute:   c.Attribute,
	}
	if c.Modes != nil {
		out.Modes = make([]Mode, len(c.Modes))
		for i, m := range c.Modes {
			out.Modes[i] = m.Clone()
		}
	}
	return out
}

// Lookup returns the mode with the given value.
func (c Config) Lookup(value string) (Mode, bool) {
	for _, m := range c.Modes {
		if m.Value == value {
			return m, true
		}
	}
	return Mode{}, false
}

// Has reports whether value names a configured mode.
func (c Config) Has(value string) bool {
	_, ok := c.Lookup(value)
	return ok
}

// Values returns the configured mode values in declaration order.
func (c Config) Values() []string {
	values := make([]string, len(c.Modes))
	for i, m := range c.Modes {
		values[i] = m.Value
	}
	return values
}

// ResolveMode returns candidate if it names a configured mode, otherwise the
// first configured mode. It returns "" only for a configuration without modes.
func (c Config) ResolveMode(candidate string) string {
	if c.Has(candidate) {
		return candidate
	}
	if len(c.Modes) == 0 {
		return ""
	}
	return c.Modes[0].Value
}

// Next returns the mode following value in declaration order, wrapping around.
// Unknown values resolve to the first mode.
func (c Config) Next(value string) string {
	for i, m := range c.Modes {
		if m.Value == value {
			return c.Modes[(i+1)%len(c.Modes)].Value
		}
	}
	return c.ResolveMode("")
}

// normalizeModes drops modes without a value and duplicates (first wins),
// and defaults AttributeValue to Value.
func normalizeModes(in []Mode) []Mode {
	seen := make(map[string]bool, len(in))
	out := make([]Mode, 0, len(in))
	for _, m := range in {
		if m.Value == "" || seen[m.Value] {
			continue
		}
		seen[m.Value] = true

		m = m.Clone()
		if m.AttributeValue == "" {
			m.AttributeValue = m.Value
		}
		m.ClassList = compactStrings(m.ClassList)
		m.Dataset = sanitizeDataset(m.Dataset)
		out = append(out, m)
	}
	return out
}

// compactStrings removes empty and duplicate entries, keeping order.
func compactStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
