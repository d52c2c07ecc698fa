package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search providers, models, and tools",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	_, cat, _, _, err := loadEnv()
	if err != nil {
		return err
	}
	term := strings.Join(args, " ")

	results := cat.Search(term)
	if len(results) == 0 {
		fmt.Printf("no matches for %q\n", term)
		return nil
	}
	for _, r := range results {
		label := r.Name
		if r.Provider != "" {
			label += faint.Sprint(" (" + r.Provider + ")")
		}
		fmt.Printf("%-9s %-34s %s\n", faint.Sprint(r.Kind), r.ID, label)
	}
	return nil
}
