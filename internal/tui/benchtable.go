package tui

import (
	"fmt"
	"strings"

	"github.com/fentz26/agentdeck/internal/benchmarks"
)

// benchColumn pairs a header with a metric accessor so the table definition
// stays in one place.
type benchColumn struct {
	header string
	value  func(r benchmarks.Record) *float64
}

var benchColumns = []benchColumn{
	{"GPQA", func(r benchmarks.Record) *float64 { return r.GPQA }},
	{"MMLU-PRO", func(r benchmarks.Record) *float64 { return r.MMLUPro }},
	{"SWE-BENCH", func(r benchmarks.Record) *float64 { return r.SWEBench }},
	{"AIME'24", func(r benchmarks.Record) *float64 { return r.AIME2024 }},
	{"LIVECODE", func(r benchmarks.Record) *float64 { return r.LiveCodeBench }},
	{"IFEVAL", func(r benchmarks.Record) *float64 { return r.IFEval }},
}

// renderBenchmarks draws the benchmark snapshot. Absent metrics render as a
// dash; a model with no score for a column was simply never evaluated on it.
func (a *App) renderBenchmarks(height int) string {
	entries, status := a.store.Benchmarks()
	if len(entries) == 0 {
		return mutedStyle.Render("  No benchmark data.")
	}

	var b strings.Builder
	if status != "" {
		b.WriteString("  " + warnStyle.Render(status) + "\n")
	}

	head := fmt.Sprintf("  %-26s %-5s", "MODEL", "OPEN")
	for _, col := range benchColumns {
		head += fmt.Sprintf(" %9s", col.header)
	}
	b.WriteString(headerStyle.Render(head) + "\n")

	start, end := window(a.benchIdx, len(entries), height-2)
	for i := start; i < end; i++ {
		r := entries[i]
		line := fmt.Sprintf("%-26s %-5s", truncate(benchName(r), 26), a.openCell(r.Slug))
		for _, col := range benchColumns {
			line += fmt.Sprintf(" %9s", scoreCell(col.value(r)))
		}
		if i == a.benchIdx {
			b.WriteString(selectedStyle.Render("▸ "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func benchName(r benchmarks.Record) string {
	if r.Name != "" {
		return r.Name
	}
	return r.Slug
}

// openCell is tri-state: yes, no, or unknown when the resolver could not map
// the benchmark entry onto a catalog model.
func (a *App) openCell(slug string) string {
	open, ok := a.openWeights[slug]
	if !ok {
		return "—"
	}
	if open {
		return "yes"
	}
	return "no"
}

func scoreCell(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f", *v)
}
