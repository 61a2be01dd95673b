package theme

import (
	"fmt"
	"maps"
	"slices"
)

// ConfigInput is a partial configuration. Zero-valued fields keep the
// built-in defaults when merged.
type ConfigInput struct {
	Modes       []Mode
	InitialMode string
	Targets     []string
	Attribute   string
}

// reservedKeys are never copied from untrusted input.
var reservedKeys = map[string]bool{
	"__proto__":   true,
	"constructor": true,
	"prototype":   true,
}

// IsReservedKey reports whether key is dropped from every merged input.
func IsReservedKey(key string) bool {
	return reservedKeys[key]
}

// merge overlays the input on a deep copy of base and normalises the result.
func (in ConfigInput) merge(base Config) Config {
	cfg := base.Clone()

	if len(in.Modes) > 0 {
		if modes := normalizeModes(in.Modes); len(modes) > 0 {
			cfg.Modes = modes
		}
	}
	if len(cfg.Modes) == 0 {
		cfg.Modes = DefaultModes()
	}

	if in.Targets != nil {
		cfg.Targets = compactStrings(in.Targets)
	}
	if in.Attribute != "" {
		cfg.Attribute = in.Attribute
	}
	if cfg.Attribute == "" {
		cfg.Attribute = DefaultAttribute
	}

	initial := cfg.InitialMode
	if in.InitialMode != "" {
		initial = in.InitialMode
	}
	cfg.InitialMode = cfg.ResolveMode(initial)

	return cfg
}

// Input returns c as a ConfigInput that reproduces it when configured.
// Zero targets stay zero rather than falling back to the defaults.
func (c Config) Input() ConfigInput {
	clone := c.Clone()
	targets := clone.Targets
	if targets == nil {
		targets = []string{}
	}
	return ConfigInput{
		Modes:       clone.Modes,
		InitialMode: clone.InitialMode,
		Targets:     targets,
		Attribute:   clone.Attribute,
	}
}

// ParseConfigInput builds a ConfigInput from a generic decoded document
// (YAML or JSON). Only known keys are read; reserved and unknown keys are
// dropped without error. Both camelCase and snake_case spellings are accepted.
func ParseConfigInput(raw map[string]any) ConfigInput {
	var in ConfigInput
	for key, value := range raw {
		if IsReservedKey(key) {
			continue
		}
		switch key {
		case "modes":
			in.Modes = parseModes(value)
		case "initialMode", "initial_mode":
			in.InitialMode = asString(value)
		case "targets":
			in.Targets = asStrings(value)
		case "attribute":
			in.Attribute = asString(value)
		}
	}
	return in
}

func parseModes(value any) []Mode {
	items, ok := value.([]any)
	if !ok {
		return nil
	}

	modes := make([]Mode, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			// Shorthand: a bare mode value.
			modes = append(modes, Mode{Value: v})
		case map[string]any:
			modes = append(modes, parseMode(v))
		}
	}
	return modes
}

func parseMode(raw map[string]any) Mode {
	var m Mode
	for key, value := range raw {
		if IsReservedKey(key) {
			continue
		}
		switch key {
		case "value":
			m.Value = asString(value)
		case "attributeValue", "attribute_value":
			m.AttributeValue = asString(value)
		case "classList", "class_list", "classes":
			m.ClassList = asStrings(value)
		case "dataset":
			m.Dataset = asDataset(value)
		}
	}
	return m
}

// sanitizeDataset returns a copy of d without reserved or empty keys.
func sanitizeDataset(d map[string]string) map[string]string {
	if len(d) == 0 {
		return nil
	}
	out := make(map[string]string, len(d))
	for k, v := range d {
		if k == "" || IsReservedKey(k) {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func asDataset(value any) map[string]string {
	switch v := value.(type) {
	case map[string]string:
		return sanitizeDataset(maps.Clone(v))
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, val := range v {
			if IsReservedKey(k) {
				continue
			}
			out[k] = asString(val)
		}
		return sanitizeDataset(out)
	}
	return nil
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func asStrings(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
