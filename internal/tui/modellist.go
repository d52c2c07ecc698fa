package tui

import (
	"fmt"
	"strings"
)

// modelRows flattens the provider catalog for display, providers in catalog
// order.
func (a *App) modelRows() []modelRow {
	var rows []modelRow
	for _, p := range a.cat.Providers {
		for _, m := range p.Models {
			open := "no"
			if m.OpenWeights {
				open = "yes"
			}
			rows = append(rows, modelRow{
				Provider: p.Name,
				ID:       m.ID,
				Name:     m.Name,
				Context:  m.ContextSize,
				Open:     open,
			})
		}
	}
	return rows
}

func (a *App) renderModels(height int) string {
	rows := a.modelRows()
	if len(rows) == 0 {
		return mutedStyle.Render("  No models in the catalog.")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-14s %-28s %-10s %s",
		"PROVIDER", "MODEL", "CONTEXT", "OPEN")) + "\n")

	start, end := window(a.modelIdx, len(rows), height-1)
	for i := start; i < end; i++ {
		r := rows[i]
		open := r.Open
		if open == "yes" {
			open = okStyle.Render("yes")
		} else {
			open = mutedStyle.Render(open)
		}
		line := fmt.Sprintf("%-14s %-28s %-10s %s",
			truncate(r.Provider, 14),
			truncate(r.Name, 28),
			formatContext(r.Context),
			open)
		if i == a.modelIdx {
			b.WriteString(selectedStyle.Render("▸ "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func formatContext(n int) string {
	if n <= 0 {
		return "—"
	}
	if n >= 1000 {
		return fmt.Sprintf("%dk", n/1000)
	}
	return fmt.Sprintf("%d", n)
}
