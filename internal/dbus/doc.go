// Package dbus reads the desktop's preferred color scheme from the
// org.freedesktop.portal.Settings interface and follows changes to it.
package dbus
