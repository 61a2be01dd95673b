package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/brandkit/internal/dom"
)

var applyOpts struct {
	output string
	mode   string
	save   bool
}

var applyCmd = &cobra.Command{
	Use:   "apply <page.html>",
	Short: "Write a page with the theme mode applied",
	Long: `Parse an HTML page, mirror the active theme mode onto the declared
targets and write the themed page.

By default the active (stored) mode is applied. --mode applies another
declared mode for this page only; add --save to also make it the active mode.

Examples:
  # Theme a page with the active mode
  brandkit apply index.html -o public/index.html

  # Preview the dark mode on stdout
  brandkit apply index.html --mode dark`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVarP(&applyOpts.output, "output", "o", "",
		"Write the themed page to this file (default: stdout)")
	applyCmd.Flags().StringVar(&applyOpts.mode, "mode", "",
		"Mode to apply instead of the active mode")
	applyCmd.Flags().BoolVar(&applyOpts.save, "save", false,
		"Make --mode the active mode")
	_ = applyCmd.RegisterFlagCompletionFunc("mode", completeModes)
}

func runApply(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}

	mode := manager.ThemeMode()
	if applyOpts.mode != "" {
		if !manager.ThemeConfig().Has(applyOpts.mode) {
			logger.Warn("unknown mode, applying the active mode", "requested", applyOpts.mode, "active", mode)
		} else if applyOpts.save {
			mode = manager.SetThemeMode(applyOpts.mode)
		} else {
			mode = applyOpts.mode
		}
	}

	applied, err := renderPage(src, applyOpts.output, mode)
	if err != nil {
		return err
	}
	logger.Debug("page themed", "page", args[0], "mode", applied, "output", applyOpts.output)
	return nil
}

// renderPage themes src with mode under the manager's configuration and
// writes it to output, or stdout when output is empty. Files are replaced
// atomically.
func renderPage(src []byte, output, mode string) (string, error) {
	var buf bytes.Buffer
	applied, err := dom.ThemePage(bytes.NewReader(src), &buf, manager.ThemeConfig(), mode, logger)
	if err != nil {
		return "", err
	}

	if output == "" {
		_, err := io.Copy(os.Stdout, &buf)
		return applied, err
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeFileAtomic(output, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write page: %w", err)
	}
	return applied, nil
}

// writeFileAtomic replaces path with data through a uniquely named temp file
// in the same directory.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
