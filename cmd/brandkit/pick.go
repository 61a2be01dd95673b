package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/brandkit/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose the theme mode interactively",
	Long: `Launch the interactive picker.

Key bindings:
  j/k, ↑/↓    Move between modes
  enter       Apply the selected mode
  t           Advance to the next mode
  ?           Show help
  q           Quit`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	mode, err := tui.Run(manager)
	if err != nil {
		return err
	}
	fmt.Println(mode)
	return nil
}
