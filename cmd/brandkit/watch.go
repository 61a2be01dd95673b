package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/brandkit/internal/daemon"
	"github.com/jmylchreest/brandkit/internal/dbus"
	"github.com/jmylchreest/brandkit/internal/store"
	"github.com/jmylchreest/brandkit/internal/theme"
)

var watchOpts struct {
	output string
}

var watchCmd = &cobra.Command{
	Use:   "watch <page.html>",
	Short: "Keep a themed copy of a page up to date",
	Long: `Write a themed copy of a page and rewrite it whenever the theme changes:
when the theme file is edited, when another brandkit process stores a new
mode, or (with follow_system) when the desktop color scheme changes.

Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOpts.output, "output", "o", "",
		"Themed page to keep up to date (required)")
	_ = watchCmd.MarkFlagRequired("output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	render := func(reason string) {
		mu.Lock()
		defer mu.Unlock()

		applied, err := renderPage(src, watchOpts.output, manager.ThemeMode())
		if err != nil {
			logger.Warn("failed to rewrite page", "output", watchOpts.output, "error", err)
			return
		}
		logger.Info("page rewritten", "output", watchOpts.output, "mode", applied, "reason", reason)
	}

	unsubscribe := manager.OnThemeChange(func(c theme.Change) {
		render(string(c.Source))
	})
	defer unsubscribe()

	debounce := cfg.Watch.DebounceDuration()

	if cfg.Theme.File != "" {
		reloader := daemon.NewThemeReloader(manager, cfg.Theme.File, debounce, logger)
		// Reloads that keep the active mode do not notify, but may change markers.
		reloader.SetReloadCallback(func(theme.Config) { render("theme file") })
		if err := reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to watch theme file: %w", err)
		}
		defer reloader.Stop()
	}

	if storage != nil && cfg.Persistence.Backend != store.BackendMemory {
		if err := os.MkdirAll(filepath.Dir(storagePath), 0700); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}
		watcher := daemon.NewStorageWatcher(manager, storage, storagePath, debounce, logger)
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("failed to watch storage: %w", err)
		}
		defer watcher.Stop()
	}

	if cfg.Theme.FollowSystem {
		followSystem(ctx)
	}

	render("start")
	<-ctx.Done()
	logger.Info("received signal, shutting down")
	return nil
}

// followSystem switches modes when the desktop color scheme changes. It
// gives up quietly when no portal is available.
func followSystem(ctx context.Context) {
	portal, err := dbus.ConnectPortal(logger)
	if err != nil {
		logger.Debug("not following system color scheme", "error", err)
		return
	}
	go func() {
		<-ctx.Done()
		_ = portal.Close()
	}()

	err = portal.WatchColorScheme(ctx, func(scheme dbus.ColorScheme) {
		if mode := scheme.PreferredMode(manager.ThemeConfig()); mode != "" {
			logger.Debug("system color scheme changed", "scheme", scheme.String(), "mode", mode)
			manager.SetThemeMode(mode)
		}
	})
	if err != nil {
		logger.Debug("not following system color scheme", "error", err)
	}
}
