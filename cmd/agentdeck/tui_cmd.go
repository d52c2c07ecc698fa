package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fentz26/agentdeck/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, cat, prefs, prefsPath, err := loadEnv()
	if err != nil {
		return err
	}
	app := tui.New(cfg, cat, prefs, prefsPath)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
