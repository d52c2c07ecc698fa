package tui

// view identifies which panel the dashboard is showing.
type view int

const (
	viewTools view = iota
	viewModels
	viewBenchmarks
	viewDetail
)

func (v view) String() string {
	switch v {
	case viewTools:
		return "tools"
	case viewModels:
		return "models"
	case viewBenchmarks:
		return "benchmarks"
	case viewDetail:
		return "detail"
	}
	return "?"
}

// modelRow is one line in the models panel: a catalog model joined with its
// open-weights resolution. Open is tri-state: "yes", "no", or "" for unknown.
type modelRow struct {
	Provider string
	ID       string
	Name     string
	Context  int
	Open     string
}
