package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/brandkit/internal/output"
	"github.com/jmylchreest/brandkit/internal/theme"
)

var modeOpts struct {
	format   string
	template string
}

// modeCmd represents the mode command group.
var modeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Get or change the active theme mode",
	Long: `Get or change the active theme mode.

Use 'brandkit mode get' to print the active mode.
Use 'brandkit mode set <mode>' to switch to a declared mode.
Use 'brandkit mode toggle' to advance to the next declared mode.
Use 'brandkit mode list' to list the declared modes.
Use 'brandkit mode status' to show persistence details.
Use 'brandkit mode reset' to forget the stored mode.`,
	RunE: modeGetRun,
}

var modeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the active mode",
	Args:  cobra.NoArgs,
	RunE:  modeGetRun,
}

var modeSetCmd = &cobra.Command{
	Use:   "set <mode>",
	Short: "Switch to a declared mode",
	Long: `Switch to a declared mode and store it.

Unknown modes are rejected and the active mode is kept.`,
	Args:              cobra.ExactArgs(1),
	RunE:              modeSetRun,
	ValidArgsFunction: completeModes,
}

var modeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Advance to the next declared mode",
	Args:  cobra.NoArgs,
	RunE:  modeToggleRun,
}

var modeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List declared modes",
	Args:  cobra.NoArgs,
	RunE:  modeListRun,
}

var modeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active mode and persistence details",
	Args:  cobra.NoArgs,
	RunE:  modeStatusRun,
}

var modeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored mode",
	Long: `Forget the stored mode. The next start falls back to the declared
initial mode (or the system preference when follow_system is set).`,
	Args: cobra.NoArgs,
	RunE: modeResetRun,
}

func init() {
	modeCmd.AddCommand(modeGetCmd)
	modeCmd.AddCommand(modeSetCmd)
	modeCmd.AddCommand(modeToggleCmd)
	modeCmd.AddCommand(modeListCmd)
	modeCmd.AddCommand(modeStatusCmd)
	modeCmd.AddCommand(modeResetCmd)

	modeListCmd.Flags().StringVarP(&modeOpts.format, "format", "f", "plain",
		"Output format (plain, dmenu, json, yaml)")
	modeListCmd.Flags().StringVar(&modeOpts.template, "template", "",
		"Custom Go template per mode for plain/dmenu output")
	modeStatusCmd.Flags().StringVarP(&modeOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml)")

	rootCmd.AddCommand(modeCmd)
}

func modeGetRun(cmd *cobra.Command, args []string) error {
	fmt.Println(manager.ThemeMode())
	return nil
}

func modeSetRun(cmd *cobra.Command, args []string) error {
	requested := args[0]
	if !manager.ThemeConfig().Has(requested) {
		return fmt.Errorf("unknown mode %q (declared: %s)", requested,
			strings.Join(manager.ThemeConfig().Values(), ", "))
	}
	fmt.Println(manager.SetThemeMode(requested))
	return nil
}

func modeToggleRun(cmd *cobra.Command, args []string) error {
	fmt.Println(manager.ToggleThemeMode())
	return nil
}

func modeListRun(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(modeOpts.format)
	if err != nil {
		return err
	}
	formatter, err := output.NewFormatter(format, output.FormatterOptions{Template: modeOpts.template})
	if err != nil {
		return err
	}
	return formatter.Format(os.Stdout, output.NewListing(manager.ThemeConfig(), manager.ThemeMode()))
}

// modeStatus is the structured form of 'mode status'.
type modeStatus struct {
	Mode        string                 `json:"mode" yaml:"mode"`
	Restored    bool                   `json:"restored" yaml:"restored"`
	Persistence theme.PersistenceState `json:"persistence" yaml:"persistence"`
	Backend     string                 `json:"backend,omitempty" yaml:"backend,omitempty"`
	Path        string                 `json:"path,omitempty" yaml:"path,omitempty"`
	UpdatedAt   *time.Time             `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	Revision    string                 `json:"revision,omitempty" yaml:"revision,omitempty"`
}

// updatedAter is implemented by backends that record write times.
type updatedAter interface {
	UpdatedAt(key string) (time.Time, bool, error)
}

// revisioner is implemented by backends that stamp writes.
type revisioner interface {
	Revision(key string) (string, error)
}

func modeStatusRun(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(modeOpts.format)
	if err != nil {
		return err
	}

	state := manager.PersistenceState()
	status := modeStatus{
		Mode:        manager.ThemeMode(),
		Restored:    manager.WasThemeRestoredFromPersistence(),
		Persistence: state,
	}

	if storage != nil {
		status.Backend = cfg.Persistence.Backend
		status.Path = storagePath
		if u, ok := storage.(updatedAter); ok {
			if at, found, err := u.UpdatedAt(state.Key); err != nil {
				logger.Warn("failed to read last change", "error", err)
			} else if found {
				status.UpdatedAt = &at
			}
		}
		if r, ok := storage.(revisioner); ok {
			if rev, err := r.Revision(state.Key); err == nil {
				status.Revision = rev
			}
		}
	}

	if format == output.FormatJSON || format == output.FormatYAML {
		return output.Encode(os.Stdout, format, status)
	}

	fmt.Printf("Mode: %s\n", status.Mode)
	if !state.Enabled {
		fmt.Println("Persistence: disabled")
		return nil
	}
	fmt.Printf("Persistence: %s (key %q)\n", status.Backend, state.Key)
	if status.Path != "" && status.Backend != "memory" {
		fmt.Printf("  Path: %s\n", status.Path)
	}
	if status.Restored {
		fmt.Println("  Restored from storage: yes")
	} else {
		fmt.Println("  Restored from storage: no")
	}
	if status.UpdatedAt != nil {
		fmt.Printf("  Last change: %s\n", humanize.Time(*status.UpdatedAt))
	}
	if status.Revision != "" {
		fmt.Printf("  Revision: %s\n", status.Revision)
	}
	return nil
}

func modeResetRun(cmd *cobra.Command, args []string) error {
	if !manager.PersistenceState().Enabled {
		fmt.Println("Persistence is disabled; nothing stored")
		return nil
	}
	if err := manager.ForgetStoredThemeMode(); err != nil {
		return err
	}
	fmt.Println("Stored mode forgotten")
	return nil
}

// completeModes completes declared mode values.
func completeModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || manager == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return manager.ThemeConfig().Values(), cobra.ShellCompDirectiveNoFileComp
}
