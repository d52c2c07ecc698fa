package tui

import (
	"fmt"
	"strings"

	"github.com/fentz26/agentdeck/internal/reconcile"
)

// renderTools draws the tracked-tools table. Every column degrades to a
// placeholder while its data source is still in flight, so partial results
// paint immediately.
func (a *App) renderTools(height int) string {
	tools := a.visibleTools()
	if len(tools) == 0 {
		if a.filter.Value() != "" {
			return mutedStyle.Render("  No tools match the filter.")
		}
		return mutedStyle.Render("  No tools in the catalog.")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-18s %-12s %-8s %-12s %-10s %s",
		"TOOL", "INSTALLED", "STARS", "LATEST", "RELEASED", "STATUS")) + "\n")

	start, end := window(a.selectedIdx, len(tools), height-1)
	for i := start; i < end; i++ {
		item := tools[i]
		line := fmt.Sprintf("%-18s %-12s %-8s %-12s %-10s %s",
			truncate(toolLabel(item), 18),
			installedCell(item),
			starsCell(item),
			latestCell(item),
			releasedCell(item),
			statusCell(item))
		if i == a.selectedIdx {
			b.WriteString(selectedStyle.Render("▸ "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func toolLabel(item *reconcile.Item) string {
	if !item.Tracked {
		return "✗ " + item.Tool.Name
	}
	return item.Tool.Name
}

func installedCell(item *reconcile.Item) string {
	if !item.ProbeDone {
		return "…"
	}
	if !item.Installed {
		return "—"
	}
	if item.Version == "" {
		return "installed"
	}
	return "v" + item.Version
}

func starsCell(item *reconcile.Item) string {
	if item.Metadata == nil || item.Metadata.Stars == nil {
		return fetchPlaceholder(item)
	}
	return formatCount(*item.Metadata.Stars)
}

func latestCell(item *reconcile.Item) string {
	if item.Metadata == nil {
		return fetchPlaceholder(item)
	}
	rel, ok := item.Metadata.LatestRelease()
	if !ok {
		return "—"
	}
	v := rel.Version
	if item.UpdateAvailable {
		v += " ↑"
	}
	return v
}

func releasedCell(item *reconcile.Item) string {
	if item.Metadata == nil {
		return fetchPlaceholder(item)
	}
	rel, ok := item.Metadata.LatestRelease()
	if !ok || rel.Date.IsZero() {
		return "—"
	}
	return rel.Date.Format("2006-01-02")
}

func statusCell(item *reconcile.Item) string {
	if !item.Tracked {
		return mutedStyle.Render("untracked")
	}
	switch item.Fetch.Status {
	case reconcile.Loading:
		return mutedStyle.Render("syncing")
	case reconcile.Failed:
		return failStyle.Render(item.Fetch.Reason)
	}
	if item.UpdateAvailable {
		return warnStyle.Render("update available")
	}
	if item.ProbeDone && item.Installed {
		return okStyle.Render("up to date")
	}
	return ""
}

// fetchPlaceholder distinguishes "still loading" from "fetch failed" in data
// columns.
func fetchPlaceholder(item *reconcile.Item) string {
	switch item.Fetch.Status {
	case reconcile.Loading:
		return "…"
	case reconcile.Failed:
		return "?"
	}
	return "—"
}

func formatCount(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

// window returns the [start, end) slice of rows that keeps the selection
// visible within the given height.
func window(selected, total, height int) (int, int) {
	if height < 1 {
		height = 1
	}
	if total <= height {
		return 0, total
	}
	start := selected - height/2
	if start < 0 {
		start = 0
	}
	if start+height > total {
		start = total - height
	}
	return start, start + height
}
