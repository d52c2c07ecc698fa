// Package tui provides the interactive agentdeck dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/agentdeck/internal/auth"
	"github.com/fentz26/agentdeck/internal/benchmarks"
	"github.com/fentz26/agentdeck/internal/catalog"
	"github.com/fentz26/agentdeck/internal/config"
	"github.com/fentz26/agentdeck/internal/github"
	"github.com/fentz26/agentdeck/internal/openweights"
	"github.com/fentz26/agentdeck/internal/probe"
	"github.com/fentz26/agentdeck/internal/reconcile"
	"github.com/fentz26/agentdeck/internal/track"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")
	cyanColor    = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	okStyle = lipgloss.NewStyle().
		Foreground(successColor)

	warnStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	failStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cyanColor)

	tabStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(fgColor).
			Background(primaryColor).
			Bold(true).
			Padding(0, 1)
)

var sortNames = map[reconcile.SortKey]string{
	reconcile.SortByName:    "name",
	reconcile.SortByStars:   "stars",
	reconcile.SortByRelease: "release",
}

// App is the dashboard's Bubble Tea model.
type App struct {
	cfg *config.Config
	cat *catalog.Catalog

	store       *reconcile.Store
	gh          *github.Client
	benchClient *benchmarks.Client
	benchCache  *benchmarks.Cache

	prefs     track.Prefs
	prefsPath string

	openWeights map[string]bool

	// probeCh delivers probe completions from the worker pool; drained one
	// message per Update pass.
	probeCh <-chan probe.Result
	ctx     context.Context

	mode        view
	selectedIdx int
	modelIdx    int
	benchIdx    int
	filter      textinput.Model
	filtering   bool
	spin        spinner.Model
	width       int
	height      int
	message     string
	saveWarned  bool
}

// New wires the dashboard. cfg is read once and threaded through; nothing
// here consults globals.
func New(cfg *config.Config, cat *catalog.Catalog, prefs track.Prefs, prefsPath string) *App {
	fi := textinput.New()
	fi.Placeholder = "filter tools..."
	fi.CharLimit = 64
	fi.Width = 32

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	gh := github.New(cfg.GitHubAPIBase, filepath.Join(cfg.CacheDir, "repos.json"), cfg.GitHubMemoryTTL, cfg.FetchTimeout)
	if mgr, err := auth.NewManager(cfg.CacheDir); err == nil {
		gh.SetToken(mgr.Token())
	}

	return &App{
		cfg:         cfg,
		cat:         cat,
		store:       reconcile.New(cat.Tools, &prefs),
		gh:          gh,
		benchClient: benchmarks.NewClient(cfg.BenchmarksURL, cfg.FetchTimeout),
		benchCache:  benchmarks.NewCache(filepath.Join(cfg.CacheDir, "benchmarks.json"), cfg.BenchmarkTTL),
		prefs:       prefs,
		prefsPath:   prefsPath,
		ctx:         context.Background(),
		filter:      fi,
		spin:        sp,
	}
}

// Run starts the dashboard.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model. It seeds benchmarks from cache-or-bundled so the
// view is never empty, then fans out one probe and one fetch per tracked
// item. No task waits on another.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spin.Tick}

	entries, fresh, ok := a.benchCache.Load()
	if !ok {
		entries = benchmarks.Baseline()
	}
	a.store.Apply(reconcile.BenchmarksReceived{Entries: entries})
	a.resolveOpenWeights(entries)
	if !ok || !fresh {
		cmds = append(cmds, a.fetchBenchmarks(false))
	}

	cmds = append(cmds, a.startSync(false)...)
	return tea.Batch(cmds...)
}

// startSync begins a fetch cycle for every tracked item: probes through the
// bounded worker pool, metadata fetches as independent commands. conditional
// selects the cheap ETag path used for manual refresh.
func (a *App) startSync(conditional bool) []tea.Cmd {
	started := a.store.Begin()

	var specs []probe.Spec
	for _, item := range started {
		specs = append(specs, probe.Spec{
			ToolID:      item.ID,
			Bin:         item.Tool.Bin,
			VersionArgs: item.Tool.VersionArgs,
		})
	}
	runner := probe.NewRunner(a.cfg.ProbeConcurrency, a.cfg.ProbeTimeout)
	a.probeCh = runner.Start(a.ctx, specs)

	cmds := []tea.Cmd{a.waitForProbe()}
	for _, item := range started {
		if item.Tool.Repo == "" {
			continue
		}
		if conditional {
			cmds = append(cmds, a.revalidateMetadata(item.ID, item.Tool.Repo))
		} else {
			cmds = append(cmds, a.fetchMetadata(item.ID, item.Tool.Repo))
		}
	}
	return cmds
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.filtering {
			return a.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit

		case "esc":
			if a.mode == viewDetail {
				a.mode = viewTools
			}

		case "tab":
			switch a.mode {
			case viewTools:
				a.mode = viewModels
			case viewModels:
				a.mode = viewBenchmarks
			default:
				a.mode = viewTools
			}

		case "up", "k":
			a.moveSelection(-1)

		case "down", "j":
			a.moveSelection(1)

		case "enter":
			if a.mode == viewTools && len(a.visibleTools()) > 0 {
				a.mode = viewDetail
			}

		case "t":
			if a.mode == viewTools {
				return a, a.toggleTracking()
			}

		case "s":
			if a.mode == viewTools {
				next := (a.store.Sort() + 1) % 3
				a.store.SetSort(next)
				a.message = "sort: " + sortNames[next]
			}

		case "r":
			if a.mode == viewBenchmarks {
				a.message = "Refreshing benchmarks..."
				return a, a.fetchBenchmarks(true)
			}
			a.message = "Refreshing..."
			return a, tea.Batch(a.startSync(true)...)

		case "/":
			if a.mode == viewTools {
				a.filtering = true
				a.filter.Focus()
				return a, textinput.Blink
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case probeResultMsg:
		a.store.Apply(reconcile.VersionDetected{ID: msg.ToolID, Result: probe.Result(msg)})
		cmds = append(cmds, a.waitForProbe())

	case probesDoneMsg:
		// all probes for this cycle delivered

	case metadataMsg:
		a.store.Apply(reconcile.MetadataReceived{ID: msg.id, Metadata: msg.meta})
		if err := a.gh.SaveWarning(); err != nil {
			a.warnOnce(fmt.Sprintf("could not save repo cache: %v", err))
		}

	case metadataErrMsg:
		a.store.Apply(reconcile.MetadataFailed{ID: msg.id, Reason: msg.reason})

	case benchmarksMsg:
		a.store.Apply(reconcile.BenchmarksReceived{Entries: msg.entries})
		a.resolveOpenWeights(msg.entries)
		if msg.interactive {
			a.message = fmt.Sprintf("✓ Benchmarks updated (%d models)", len(msg.entries))
		}
		if msg.saveErr != nil {
			a.warnOnce(fmt.Sprintf("could not save benchmark cache: %v", msg.saveErr))
		}

	case benchmarksErrMsg:
		a.store.Apply(reconcile.BenchmarksFailed{Reason: msg.reason})
		if msg.interactive {
			a.message = "Benchmark refresh failed: " + msg.reason
		}

	case saveWarnMsg:
		a.warnOnce(string(msg))

	case spinner.TickMsg:
		if a.store.Loading() {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.filtering = false
		a.filter.SetValue("")
		a.filter.Blur()
		return a, nil
	case "enter":
		a.filtering = false
		a.filter.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.filter, cmd = a.filter.Update(msg)
	a.selectedIdx = 0
	return a, cmd
}

func (a *App) moveSelection(delta int) {
	switch a.mode {
	case viewTools:
		a.selectedIdx = clamp(a.selectedIdx+delta, 0, len(a.visibleTools())-1)
	case viewModels:
		a.modelIdx = clamp(a.modelIdx+delta, 0, len(a.modelRows())-1)
	case viewBenchmarks:
		entries, _ := a.store.Benchmarks()
		a.benchIdx = clamp(a.benchIdx+delta, 0, len(entries)-1)
	}
}

// toggleTracking flips the selected tool and persists the preference. A
// newly tracked item gets exactly one probe and one fetch.
func (a *App) toggleTracking() tea.Cmd {
	tools := a.visibleTools()
	if len(tools) == 0 {
		return nil
	}
	item := tools[a.selectedIdx]
	on := !item.Tracked

	updated, needsSync := a.store.SetTracked(item.ID, on)
	if updated == nil {
		return nil
	}
	a.prefs.SetTracked(item.ID, on)

	cmds := []tea.Cmd{a.savePrefs()}
	if needsSync {
		cmds = append(cmds, a.probeOne(probe.Spec{
			ToolID:      updated.ID,
			Bin:         updated.Tool.Bin,
			VersionArgs: updated.Tool.VersionArgs,
		}))
		if updated.Tool.Repo != "" {
			cmds = append(cmds, a.fetchMetadata(updated.ID, updated.Tool.Repo))
		}
	}
	if on {
		a.message = "✓ Tracking " + updated.Tool.Name
	} else {
		a.message = "Stopped tracking " + updated.Tool.Name
	}
	return tea.Batch(cmds...)
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	header := titleStyle.Render("⬢ AGENTDECK")
	if a.store.Loading() {
		header += " " + a.spin.View() + mutedStyle.Render(fmt.Sprintf(" syncing %d...", a.store.Pending()))
	}
	header += "  " + a.renderTabs()
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", max(a.width, 20)) + "\n")

	contentHeight := a.height - 7
	if contentHeight < 5 {
		contentHeight = 5
	}

	switch a.mode {
	case viewTools:
		b.WriteString(a.renderTools(contentHeight))
	case viewDetail:
		b.WriteString(a.renderToolDetail(contentHeight))
	case viewModels:
		b.WriteString(a.renderModels(contentHeight))
	case viewBenchmarks:
		b.WriteString(a.renderBenchmarks(contentHeight))
	}

	if a.filtering {
		b.WriteString("\n/" + a.filter.View())
	} else if a.message != "" {
		style := okStyle
		if strings.HasPrefix(a.message, "Warning") || strings.Contains(a.message, "failed") {
			style = failStyle
		}
		b.WriteString("\n" + style.Render(a.message))
	} else {
		b.WriteString("\n")
	}

	b.WriteString("\n" + statusBarStyle.Width(max(a.width, 20)).Render(a.statusLine()))
	return b.String()
}

func (a *App) renderTabs() string {
	var tabs []string
	for _, v := range []view{viewTools, viewModels, viewBenchmarks} {
		style := tabStyle
		if a.mode == v || (a.mode == viewDetail && v == viewTools) {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(v.String()))
	}
	return strings.Join(tabs, " ")
}

func (a *App) statusLine() string {
	switch a.mode {
	case viewTools:
		return fmt.Sprintf(" Tools: %d | ↑↓:nav | Enter:detail | t:track | s:sort(%s) | /:filter | r:refresh | Tab:views | q:quit",
			len(a.visibleTools()), sortNames[a.store.Sort()])
	case viewDetail:
		return " Esc:back | q:quit"
	case viewModels:
		return fmt.Sprintf(" Models: %d | ↑↓:nav | Tab:views | q:quit", len(a.modelRows()))
	case viewBenchmarks:
		entries, _ := a.store.Benchmarks()
		return fmt.Sprintf(" Benchmarks: %d | ↑↓:nav | r:refresh | Tab:views | q:quit", len(entries))
	}
	return ""
}

// visibleTools applies the filter to the store's sorted items.
func (a *App) visibleTools() []*reconcile.Item {
	items := a.store.Items()
	term := strings.ToLower(strings.TrimSpace(a.filter.Value()))
	if term == "" {
		return items
	}
	var out []*reconcile.Item
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Tool.Name), term) ||
			strings.Contains(strings.ToLower(item.ID), term) {
			out = append(out, item)
		}
	}
	return out
}

func (a *App) resolveOpenWeights(entries []benchmarks.Record) {
	a.openWeights = openweights.Resolve(openweights.FromCatalog(a.cat), entries)
}

// warnOnce shows the first cache-save warning and swallows repeats; one
// degraded-persistence notice is signal, a stream of them is noise.
func (a *App) warnOnce(text string) {
	if a.saveWarned {
		return
	}
	a.saveWarned = true
	a.message = "Warning: " + text
}

func (a *App) savePrefs() tea.Cmd {
	prefs := a.prefs
	path := a.prefsPath
	return func() tea.Msg {
		if err := track.Save(path, prefs); err != nil {
			return saveWarnMsg(fmt.Sprintf("could not save preferences: %v", err))
		}
		return nil
	}
}

// waitForProbe blocks on the probe channel and re-arms itself after every
// delivery; the channel closing ends the cycle.
func (a *App) waitForProbe() tea.Cmd {
	ch := a.probeCh
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return probesDoneMsg{}
		}
		return probeResultMsg(res)
	}
}

func (a *App) probeOne(spec probe.Spec) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(a.ctx, a.cfg.ProbeTimeout)
		defer cancel()
		return probeResultMsg(probe.Run(ctx, spec))
	}
}

func (a *App) fetchMetadata(id, repo string) tea.Cmd {
	return func() tea.Msg {
		meta, err := a.gh.Fetch(a.ctx, repo)
		if err != nil {
			return metadataErrMsg{id: id, reason: fetchReason(err)}
		}
		return metadataMsg{id: id, meta: meta}
	}
}

// revalidateMetadata uses the conditional path: a 304 means the disk cache is
// still authoritative, so the cached entry is applied as-is.
func (a *App) revalidateMetadata(id, repo string) tea.Cmd {
	return func() tea.Msg {
		res, err := a.gh.FetchConditional(a.ctx, repo)
		if err != nil {
			return metadataErrMsg{id: id, reason: fetchReason(err)}
		}
		if res.NotModified {
			if meta, ok := a.gh.Cached(repo); ok {
				return metadataMsg{id: id, meta: meta}
			}
			return metadataErrMsg{id: id, reason: "not modified but no cached data"}
		}
		return metadataMsg{id: id, meta: res.Metadata}
	}
}

func (a *App) fetchBenchmarks(interactive bool) tea.Cmd {
	return func() tea.Msg {
		entries, err := a.benchClient.Fetch(a.ctx)
		if err != nil {
			return benchmarksErrMsg{reason: err.Error(), interactive: interactive}
		}
		// The cache is written only here, after a successful fetch. A failed
		// save is not fatal; the data is still good for this session, but the
		// user hears about it once.
		saveErr := a.benchCache.Save(entries)
		return benchmarksMsg{entries: entries, interactive: interactive, saveErr: saveErr}
	}
}

// fetchReason maps the error taxonomy to a short display string.
func fetchReason(err error) string {
	if errors.Is(err, github.ErrRateLimited) {
		return "rate limited"
	}
	var httpErr *github.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("HTTP %d", httpErr.Status)
	}
	return "network error"
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type probeResultMsg probe.Result

type probesDoneMsg struct{}

type metadataMsg struct {
	id   string
	meta github.RepoMetadata
}

type metadataErrMsg struct {
	id     string
	reason string
}

type benchmarksMsg struct {
	entries     []benchmarks.Record
	interactive bool
	saveErr     error
}

type benchmarksErrMsg struct {
	reason      string
	interactive bool
}

type saveWarnMsg string
