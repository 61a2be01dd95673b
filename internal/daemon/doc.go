// Package daemon keeps a running brandkit process in sync with the files it
// depends on. It reloads the theme declaration when it is edited and
// re-restores the stored mode when another process changes it.
package daemon
