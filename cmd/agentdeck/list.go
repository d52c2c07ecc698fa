package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	boldCyan = color.New(color.FgCyan, color.Bold)
	green    = color.New(color.FgGreen)
	faint    = color.New(color.Faint)
)

var listCmd = &cobra.Command{
	Use:       "list [tools|providers|models]",
	Short:     "List catalog entries",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"tools", "providers", "models"},
	RunE:      runList,
}

func runList(cmd *cobra.Command, args []string) error {
	_, cat, prefs, _, err := loadEnv()
	if err != nil {
		return err
	}

	kind := "tools"
	if len(args) > 0 {
		kind = args[0]
	}

	switch kind {
	case "tools":
		boldCyan.Println("Agent tools")
		for _, t := range cat.Tools {
			marker := "  "
			if !prefs.IsTracked(t.ID) {
				marker = faint.Sprint("✗ ")
			}
			fmt.Printf("%s%-16s %s\n", marker, t.ID, faint.Sprint(t.Description))
		}
		for _, c := range prefs.Custom {
			fmt.Printf("  %-16s %s\n", c.ID, faint.Sprint(c.Name+" (custom)"))
		}

	case "providers":
		boldCyan.Println("Providers")
		for _, p := range cat.Providers {
			fmt.Printf("  %-14s %s %s\n", p.ID, p.Name, faint.Sprintf("(%d models)", len(p.Models)))
		}

	case "models":
		for _, p := range cat.Providers {
			boldCyan.Println(p.Name)
			for _, m := range p.Models {
				open := ""
				if m.OpenWeights {
					open = green.Sprint(" [open]")
				}
				fmt.Printf("  %-34s %s%s\n", m.ID, m.Name, open)
			}
		}

	default:
		return fmt.Errorf("unknown kind %q (want tools, providers, or models)", kind)
	}
	return nil
}
