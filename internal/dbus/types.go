package dbus

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/brandkit/internal/theme"
)

// D-Bus names of the settings portal.
const (
	PortalDest          = "org.freedesktop.portal.Desktop"
	PortalPath          = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	SettingsInterface   = "org.freedesktop.portal.Settings"
	AppearanceNamespace = "org.freedesktop.appearance"
	ColorSchemeKey      = "color-scheme"
)

// ErrNoPortal is returned when no settings portal answers on the bus.
var ErrNoPortal = errors.New("settings portal not available")

// ColorScheme is the appearance preference published by the portal.
// These values are defined by the freedesktop.org appearance settings.
type ColorScheme uint32

const (
	// ColorSchemeNone indicates no preference.
	ColorSchemeNone ColorScheme = 0
	// ColorSchemeDark indicates a preference for dark appearance.
	ColorSchemeDark ColorScheme = 1
	// ColorSchemeLight indicates a preference for light appearance.
	ColorSchemeLight ColorScheme = 2
)

// String returns the string representation of the color scheme.
func (c ColorScheme) String() string {
	switch c {
	case ColorSchemeNone:
		return "none"
	case ColorSchemeDark:
		return "dark"
	case ColorSchemeLight:
		return "light"
	default:
		return "unknown"
	}
}

// PreferredMode maps the scheme onto a configured mode. It returns "" when
// there is no preference or the matching mode is not configured.
func (c ColorScheme) PreferredMode(cfg theme.Config) string {
	var want string
	switch c {
	case ColorSchemeDark:
		want = theme.ModeDark
	case ColorSchemeLight:
		want = theme.ModeLight
	default:
		return ""
	}
	if !cfg.Has(want) {
		return ""
	}
	return want
}

// decodeColorScheme unwraps the portal reply. Settings.Read nests the value
// in an extra variant; ReadOne does not.
func decodeColorScheme(v dbus.Variant) (ColorScheme, error) {
	value := v.Value()
	for {
		inner, ok := value.(dbus.Variant)
		if !ok {
			break
		}
		value = inner.Value()
	}

	switch n := value.(type) {
	case uint32:
		return ColorScheme(n), nil
	case int32:
		return ColorScheme(n), nil
	default:
		return ColorSchemeNone, fmt.Errorf("unexpected color-scheme type %T", value)
	}
}
