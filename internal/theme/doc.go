// Package theme implements the theme state manager for the brandkit UI elements.
// It tracks the active mode, mirrors it onto a cached set of DOM targets,
// persists it through a pluggable storage capability and notifies subscribers
// whenever the externally visible mode changes.
package theme
