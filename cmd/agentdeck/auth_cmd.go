package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fentz26/agentdeck/internal/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the GitHub token used for metadata fetches",
}

var authSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Store a GitHub personal access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := authManager()
		if err != nil {
			return err
		}
		if err := mgr.SetToken(args[0]); err != nil {
			return err
		}
		green.Println("✓ token stored")
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := authManager()
		if err != nil {
			return err
		}
		if err := mgr.ClearToken(); err != nil {
			return err
		}
		fmt.Println("token removed")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a token is configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := authManager()
		if err != nil {
			return err
		}
		if mgr.HasToken() {
			green.Println("✓ token configured")
		} else {
			fmt.Println("no token; API requests are anonymous (60/hour)")
		}
		return nil
	},
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authClearCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func authManager() (*auth.Manager, error) {
	cfg, _, _, _, err := loadEnv()
	if err != nil {
		return nil, err
	}
	return auth.NewManager(cfg.CacheDir)
}
