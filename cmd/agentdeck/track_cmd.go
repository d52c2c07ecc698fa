package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fentz26/agentdeck/internal/track"
)

var trackCmd = &cobra.Command{
	Use:   "track <tool-id>",
	Short: "Track an agent tool",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrack,
}

var untrackCmd = &cobra.Command{
	Use:   "untrack <tool-id>",
	Short: "Stop tracking an agent tool",
	Args:  cobra.ExactArgs(1),
	RunE:  runUntrack,
}

var trackAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Track a custom tool not in the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrackAdd,
}

var (
	trackOff       bool
	addBin         string
	addVersionArgs string
	addRepo        string
)

func init() {
	trackCmd.Flags().BoolVar(&trackOff, "off", false, "stop tracking instead")
	trackAddCmd.Flags().StringVar(&addBin, "bin", "", "binary name to probe (defaults to the tool name)")
	trackAddCmd.Flags().StringVar(&addVersionArgs, "version-args", "--version", "arguments that print the version")
	trackAddCmd.Flags().StringVar(&addRepo, "repo", "", "GitHub repository as owner/name")
	trackCmd.AddCommand(trackAddCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	return setTracked(args[0], !trackOff)
}

func runUntrack(cmd *cobra.Command, args []string) error {
	return setTracked(args[0], false)
}

func setTracked(id string, on bool) error {
	_, cat, prefs, prefsPath, err := loadEnv()
	if err != nil {
		return err
	}
	if _, ok := cat.FindTool(id); !ok && !isCustom(prefs, id) {
		return fmt.Errorf("no tool %q (see: agentdeck list tools)", id)
	}
	prefs.SetTracked(id, on)
	if err := track.Save(prefsPath, prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	if on {
		green.Printf("✓ tracking %s\n", id)
	} else {
		fmt.Printf("stopped tracking %s\n", id)
	}
	return nil
}

func runTrackAdd(cmd *cobra.Command, args []string) error {
	_, _, prefs, prefsPath, err := loadEnv()
	if err != nil {
		return err
	}
	name := args[0]
	bin := addBin
	if bin == "" {
		bin = name
	}
	id := prefs.AddCustom(track.CustomTool{
		Name:        name,
		Bin:         bin,
		VersionArgs: strings.Fields(addVersionArgs),
		Repo:        addRepo,
	})
	if err := track.Save(prefsPath, prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	green.Printf("✓ added %s (%s)\n", name, id)
	return nil
}

func isCustom(prefs track.Prefs, id string) bool {
	for _, c := range prefs.Custom {
		if c.ID == id {
			return true
		}
	}
	return false
}
