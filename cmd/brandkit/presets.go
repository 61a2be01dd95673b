package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/brandkit/internal/preset"
)

var demoOpts struct {
	output string
	mode   string
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in theme declarations",
	Long: `List the theme declarations built into brandkit. Select one with
--preset or [theme] preset in the config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range preset.ListEmbeddedThemes() {
			marker := " "
			if name == cfg.Theme.Preset && cfg.Theme.File == "" {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, name)
		}
		return nil
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Write the built-in demo page with the active mode applied",
	Long: `Write the built-in demo page, themed with the active mode and the
active theme declaration. Useful to preview presets:

  brandkit demo --preset brand --mode dark -o /tmp/demo.html`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := manager.ThemeMode()
		if demoOpts.mode != "" {
			mode = demoOpts.mode
		}
		applied, err := renderPage(preset.DemoPage(), demoOpts.output, mode)
		if err != nil {
			return err
		}
		logger.Debug("demo page written", "mode", applied, "output", demoOpts.output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVarP(&demoOpts.output, "output", "o", "",
		"Write the page to this file (default: stdout)")
	demoCmd.Flags().StringVar(&demoOpts.mode, "mode", "",
		"Mode to apply instead of the active mode")
	_ = demoCmd.RegisterFlagCompletionFunc("mode", completeModes)
}
