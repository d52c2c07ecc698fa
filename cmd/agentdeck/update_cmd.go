package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fentz26/agentdeck/internal/update"
)

var checkOnly bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update agentdeck to the latest release",
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only check, do not install")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg, _, _, _, err := loadEnv()
	if err != nil {
		return err
	}
	checker, err := update.NewChecker(cfg.GitHubAPIBase, cfg.CacheDir, Version)
	if err != nil {
		return err
	}

	fmt.Printf("current version: %s\n", Version)
	has, latest, err := checker.Check(cmd.Context())
	if err != nil {
		return err
	}
	if !has {
		green.Println("✓ already up to date")
		return nil
	}
	fmt.Printf("new version available: %s\n", latest)
	if checkOnly {
		return nil
	}

	if err := checker.Install(cmd.Context()); err != nil {
		return err
	}
	green.Printf("✓ updated to %s\n", latest)
	return nil
}
