package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/agentdeck/internal/reconcile"
)

var (
	detailLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Width(14)

	changelogStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			PaddingLeft(4)
)

// renderToolDetail draws the full record for the selected tool, including the
// release history the list view has no room for.
func (a *App) renderToolDetail(height int) string {
	tools := a.visibleTools()
	if a.selectedIdx >= len(tools) {
		return mutedStyle.Render("  No tool selected.")
	}
	item := tools[a.selectedIdx]

	var b strings.Builder
	b.WriteString("  " + headerStyle.Render(item.Tool.Name) + "\n")
	if item.Tool.Description != "" {
		b.WriteString("  " + mutedStyle.Render(item.Tool.Description) + "\n")
	}
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString("  " + detailLabelStyle.Render(label) + value + "\n")
	}

	switch {
	case !item.ProbeDone:
		row("Installed", "checking...")
	case item.Installed:
		v := item.Version
		if v == "" {
			v = "unknown version"
		}
		row("Installed", okStyle.Render("yes")+" ("+v+")")
		if item.Path != "" {
			row("Path", item.Path)
		}
	default:
		row("Installed", mutedStyle.Render("no"))
		if item.ProbeErr != "" {
			row("", failStyle.Render(item.ProbeErr))
		}
	}

	if item.Tool.Repo != "" {
		row("Repository", "github.com/"+item.Tool.Repo)
	}
	if item.Tool.Homepage != "" {
		row("Homepage", item.Tool.Homepage)
	}

	meta := item.Metadata
	if meta == nil {
		b.WriteString("\n")
		switch {
		case item.Fetch.Status == reconcile.Loading:
			row("Metadata", mutedStyle.Render("syncing..."))
		case item.Fetch.Reason != "":
			row("Metadata", failStyle.Render(item.Fetch.Reason))
		}
		return b.String()
	}

	if meta.Stars != nil {
		row("Stars", formatCount(*meta.Stars))
	}
	if meta.OpenIssues != nil {
		row("Open issues", fmt.Sprintf("%d", *meta.OpenIssues))
	}
	if meta.License != "" {
		row("License", meta.License)
	}
	if meta.LastCommit != nil {
		row("Last commit", meta.LastCommit.Format("2006-01-02 15:04"))
	}
	if item.UpdateAvailable {
		if rel, ok := meta.LatestRelease(); ok {
			row("Update", warnStyle.Render(item.Version+" → "+strings.TrimPrefix(rel.Version, "v")))
		}
	}

	if len(meta.Releases) > 0 {
		b.WriteString("\n  " + headerStyle.Render("Releases") + "\n")
		shown := meta.Releases
		maxRel := (height - 14) / 2
		if maxRel < 3 {
			maxRel = 3
		}
		if len(shown) > maxRel {
			shown = shown[:maxRel]
		}
		for _, rel := range shown {
			line := "  " + rel.Version
			if !rel.Date.IsZero() {
				line += mutedStyle.Render("  " + rel.Date.Format("2006-01-02"))
			}
			b.WriteString(line + "\n")
			if note := firstLine(rel.Changelog); note != "" {
				b.WriteString(changelogStyle.Render(truncate(note, 72)) + "\n")
			}
		}
	}
	return b.String()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(strings.TrimLeft(s, "# "))
}
