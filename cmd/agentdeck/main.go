package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fentz26/agentdeck/internal/catalog"
	"github.com/fentz26/agentdeck/internal/config"
	"github.com/fentz26/agentdeck/internal/track"
)

var rootCmd = &cobra.Command{
	Use:   "agentdeck",
	Short: "agentdeck - dashboard for AI models, providers, and agent tools",
	Long:  `agentdeck is a terminal dashboard for browsing AI model and provider metadata, tracking the CLI agent tools installed on this machine, and comparing benchmark scores.`,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	configPath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(untrackCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadEnv assembles the pieces every subcommand needs.
func loadEnv() (*config.Config, *catalog.Catalog, track.Prefs, string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, track.Prefs{}, "", fmt.Errorf("load config: %w", err)
	}
	cat, err := catalog.Load()
	if err != nil {
		return nil, nil, track.Prefs{}, "", err
	}
	prefsPath := filepath.Join(cfg.CacheDir, "prefs.toml")
	prefs, err := track.Load(prefsPath)
	if err != nil {
		return nil, nil, track.Prefs{}, "", fmt.Errorf("load preferences: %w", err)
	}
	return cfg, cat, prefs, prefsPath, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
