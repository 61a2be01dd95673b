package dbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// Portal queries the settings portal over a session bus connection.
type Portal struct {
	conn   *dbus.Conn
	logger *slog.Logger
}

// NewPortal wraps an existing connection.
func NewPortal(conn *dbus.Conn, logger *slog.Logger) *Portal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Portal{conn: conn, logger: logger}
}

// ConnectPortal connects to the session bus.
func ConnectPortal(logger *slog.Logger) (*Portal, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w: %w", ErrNoPortal, err)
	}
	return NewPortal(conn, logger), nil
}

// ReadColorScheme connects to the session bus, reads the preference and
// disconnects.
func ReadColorScheme(ctx context.Context) (ColorScheme, error) {
	p, err := ConnectPortal(nil)
	if err != nil {
		return ColorSchemeNone, err
	}
	defer p.Close()
	return p.ReadColorScheme(ctx)
}

// ReadColorScheme reads org.freedesktop.appearance color-scheme.
func (p *Portal) ReadColorScheme(ctx context.Context) (ColorScheme, error) {
	obj := p.conn.Object(PortalDest, PortalPath)

	var reply dbus.Variant
	call := obj.CallWithContext(ctx, SettingsInterface+".Read", 0, AppearanceNamespace, ColorSchemeKey)
	if call.Err != nil {
		return ColorSchemeNone, classify(call.Err)
	}
	if err := call.Store(&reply); err != nil {
		return ColorSchemeNone, fmt.Errorf("failed to decode color-scheme: %w", err)
	}

	scheme, err := decodeColorScheme(reply)
	if err != nil {
		return ColorSchemeNone, err
	}
	p.logger.Debug("read color scheme from portal", "scheme", scheme.String())
	return scheme, nil
}

// WatchColorScheme calls fn for every SettingChanged signal that updates the
// color scheme, until ctx is cancelled.
func (p *Portal) WatchColorScheme(ctx context.Context, fn func(ColorScheme)) error {
	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(PortalPath),
		dbus.WithMatchInterface(SettingsInterface),
		dbus.WithMatchMember("SettingChanged"),
		dbus.WithMatchArg(0, AppearanceNamespace),
	}
	if err := p.conn.AddMatchSignalContext(ctx, opts...); err != nil {
		return classify(err)
	}

	ch := make(chan *dbus.Signal, 8)
	p.conn.Signal(ch)

	go func() {
		defer func() {
			p.conn.RemoveSignal(ch)
			_ = p.conn.RemoveMatchSignal(opts...)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-ch:
				if !ok {
					return
				}
				scheme, ok := p.parseSettingChanged(sig)
				if ok {
					fn(scheme)
				}
			}
		}
	}()
	return nil
}

// parseSettingChanged decodes SettingChanged(namespace, key, value).
func (p *Portal) parseSettingChanged(sig *dbus.Signal) (ColorScheme, bool) {
	if sig.Name != SettingsInterface+".SettingChanged" || len(sig.Body) < 3 {
		return ColorSchemeNone, false
	}
	namespace, _ := sig.Body[0].(string)
	key, _ := sig.Body[1].(string)
	if namespace != AppearanceNamespace || key != ColorSchemeKey {
		return ColorSchemeNone, false
	}
	value, ok := sig.Body[2].(dbus.Variant)
	if !ok {
		p.logger.Warn("invalid SettingChanged value type", "type", fmt.Sprintf("%T", sig.Body[2]))
		return ColorSchemeNone, false
	}
	scheme, err := decodeColorScheme(value)
	if err != nil {
		p.logger.Warn("invalid color-scheme value", "error", err)
		return ColorSchemeNone, false
	}
	return scheme, true
}

// Close closes the underlying connection.
func (p *Portal) Close() error {
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// classify maps "nobody is listening" replies onto ErrNoPortal.
func classify(err error) error {
	var dbusErr dbus.Error
	if de, ok := err.(dbus.Error); ok {
		dbusErr = de
	} else if de, ok := err.(*dbus.Error); ok && de != nil {
		dbusErr = *de
	}
	switch dbusErr.Name {
	case "org.freedesktop.DBus.Error.ServiceUnknown",
		"org.freedesktop.DBus.Error.UnknownMethod",
		"org.freedesktop.portal.Error.NotFound":
		return fmt.Errorf("%w: %s", ErrNoPortal, dbusErr.Name)
	}
	return fmt.Errorf("portal call failed: %w", err)
}
