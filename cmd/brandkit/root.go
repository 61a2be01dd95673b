// Package main provides the CLI entrypoint for brandkit.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/brandkit/internal/config"
	"github.com/jmylchreest/brandkit/internal/dbus"
	"github.com/jmylchreest/brandkit/internal/preset"
	"github.com/jmylchreest/brandkit/internal/store"
	"github.com/jmylchreest/brandkit/internal/theme"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// portalTimeout bounds the start-up color scheme query.
const portalTimeout = 2 * time.Second

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose     bool
		configPath  string
		themeFile   string
		preset      string
		backend     string
		storagePath string
		noPersist   bool
	}
	logger *slog.Logger

	// manager owns the active mode; it has no DOM of its own.
	manager *theme.Manager
	// storage is nil when persistence is disabled.
	storage     store.Storage
	storagePath string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "brandkit",
	Short: "Theme mode manager for brandkit pages",
	Long: `brandkit manages the active theme mode (light, dark or any declared
mode) of brandkit pages.

The active mode is persisted so every page and every brandkit process picks
it up. Modes, their classes and dataset entries, and the elements they are
mirrored onto are declared in a YAML theme file.

Running brandkit without a subcommand launches the interactive picker.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cmd)

		return setupManager(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if storage != nil {
			return storage.Close()
		}
		return nil
	},
	// Default to the picker when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPick(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/brandkit/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.themeFile, "theme-file", "",
		"Path to a YAML theme declaration (overrides [theme] file)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.preset, "preset", "",
		"Built-in theme declaration to use when no theme file is set (see 'brandkit presets')")
	rootCmd.PersistentFlags().StringVar(&globalOpts.backend, "backend", "",
		"Storage backend: memory, file or sqlite (overrides [persistence] backend)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.storagePath, "storage-path", "",
		"Path to the state file or database (overrides [persistence] path)")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.noPersist, "no-persist", false,
		"Do not read or write the stored mode")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// applyFlagOverrides copies explicitly set global flags over the config file.
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("theme-file") {
		cfg.Theme.File = globalOpts.themeFile
	}
	if flags.Changed("preset") {
		cfg.Theme.Preset = globalOpts.preset
		if !flags.Changed("theme-file") {
			cfg.Theme.File = ""
		}
	}
	if flags.Changed("backend") {
		cfg.Persistence.Backend = globalOpts.backend
	}
	if flags.Changed("storage-path") {
		cfg.Persistence.Path = globalOpts.storagePath
	}
	if globalOpts.noPersist {
		cfg.Persistence.Enabled = false
	}
}

// setupManager builds the manager: theme declaration first, then the
// desktop preference, then the stored mode, each one overriding the last.
func setupManager(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	manager = theme.NewManager(nil, theme.WithLogger(logger))

	in, err := themeInput()
	if err != nil {
		return err
	}
	active := manager.ConfigureTheme(in)

	if cfg.Theme.FollowSystem {
		if mode := systemMode(ctx, active); mode != "" {
			in.InitialMode = mode
			manager.ConfigureTheme(in)
		}
	}

	if !cfg.Persistence.Enabled {
		return nil
	}
	return openStorage()
}

// themeInput loads the configured theme declaration, if any. A theme file
// takes precedence over a preset.
func themeInput() (theme.ConfigInput, error) {
	var in theme.ConfigInput
	switch {
	case cfg.Theme.File != "":
		var err error
		in, err = config.LoadThemeFile(cfg.Theme.File)
		if err != nil {
			return theme.ConfigInput{}, fmt.Errorf("failed to load theme file: %w", err)
		}
		logger.Debug("loaded theme file", "path", cfg.Theme.File, "modes", len(in.Modes))
	case cfg.Theme.Preset != "":
		var ok bool
		in, ok = preset.GetEmbeddedTheme(cfg.Theme.Preset)
		if !ok {
			return theme.ConfigInput{}, fmt.Errorf("unknown preset %q (available: %s)",
				cfg.Theme.Preset, strings.Join(preset.ListEmbeddedThemes(), ", "))
		}
		logger.Debug("using preset", "preset", cfg.Theme.Preset)
	}
	if cfg.Theme.Mode != "" {
		in.InitialMode = cfg.Theme.Mode
	}
	return in, nil
}

// systemMode asks the settings portal for the preferred scheme. A missing
// portal is not an error.
func systemMode(ctx context.Context, active theme.Config) string {
	ctx, cancel := context.WithTimeout(ctx, portalTimeout)
	defer cancel()

	scheme, err := dbus.ReadColorScheme(ctx)
	if err != nil {
		if errors.Is(err, dbus.ErrNoPortal) {
			logger.Debug("no settings portal, ignoring system preference", "error", err)
		} else {
			logger.Warn("failed to read system color scheme", "error", err)
		}
		return ""
	}
	return scheme.PreferredMode(active)
}

// openStorage opens the configured backend and restores the stored mode.
func openStorage() error {
	backend := cfg.Persistence.Backend
	storagePath = cfg.Persistence.Path
	if storagePath == "" {
		var err error
		if storagePath, err = store.DefaultPath(backend); err != nil {
			return fmt.Errorf("failed to resolve storage path: %w", err)
		}
	}

	var err error
	storage, err = store.Open(backend, storagePath)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", backend, err)
	}

	state := manager.ConfigureThemePersistence(theme.PersistenceInput{
		Enabled:    true,
		StorageKey: cfg.Persistence.Key,
		Storage:    storage,
	})
	logger.Debug("persistence configured",
		"backend", backend,
		"path", storagePath,
		"key", state.Key,
		"restored", manager.WasThemeRestoredFromPersistence())
	return nil
}
