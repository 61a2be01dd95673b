package dom

import (
	"io"
	"log/slog"

	"github.com/jmylchreest/brandkit/internal/theme"
)

// ThemePage parses the page read from r, applies mode under cfg and writes
// the themed markup to w. Each call works on its own document, so callers
// may render concurrently while a shared manager keeps changing.
func ThemePage(r io.Reader, w io.Writer, cfg theme.Config, mode string, logger *slog.Logger) (string, error) {
	doc, err := Parse(r)
	if err != nil {
		return "", err
	}
	doc.SetLogger(logger)

	m := theme.NewManager(doc, theme.WithLogger(logger))
	m.ConfigureTheme(cfg.Input())
	applied := m.SetThemeMode(mode)

	return applied, doc.Render(w)
}
