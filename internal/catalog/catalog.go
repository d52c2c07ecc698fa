// Package catalog holds the static model, provider, and agent tool metadata
// that agentdeck ships with. Everything here is declarative; the sync
// subsystem layers live data on top of it.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed providers.json
var providersJSON []byte

// Model is one entry in a provider's model list.
type Model struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ContextSize int     `json:"context_size,omitempty"`
	InputCost   float64 `json:"input_cost,omitempty"`  // USD per 1M tokens
	OutputCost  float64 `json:"output_cost,omitempty"` // USD per 1M tokens
	Reasoning   bool    `json:"reasoning,omitempty"`
	ToolCalls   bool    `json:"tool_calls,omitempty"`
	OpenWeights bool    `json:"open_weights,omitempty"`
}

// Provider is an AI model provider and its catalog of models.
type Provider struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Docs   string  `json:"docs,omitempty"`
	Models []Model `json:"models"`
}

// Tool describes one command-line agent tool agentdeck knows how to track:
// which binary to probe, how to ask it for its version, and which repository
// carries its releases.
type Tool struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Bin         string   `json:"bin"`
	VersionArgs []string `json:"version_args"`
	Repo        string   `json:"repo,omitempty"` // owner/name on GitHub
	Homepage    string   `json:"homepage,omitempty"`
}

// Catalog is the loaded static data set.
type Catalog struct {
	Providers []Provider `json:"providers"`
	Tools     []Tool     `json:"tools"`
}

// Load parses the embedded catalog. The embed is validated at build time by
// the tests, so a parse failure here is a packaging bug.
func Load() (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(providersJSON, &c); err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return &c, nil
}

// ModelIDs returns provider id -> model ids, the shape the open weights
// resolver joins against.
func (c *Catalog) ModelIDs() map[string][]string {
	out := make(map[string][]string, len(c.Providers))
	for _, p := range c.Providers {
		ids := make([]string, 0, len(p.Models))
		for _, m := range p.Models {
			ids = append(ids, m.ID)
		}
		out[p.ID] = ids
	}
	return out
}

// FindProvider returns the provider with the given id.
func (c *Catalog) FindProvider(id string) (Provider, bool) {
	for _, p := range c.Providers {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}

// FindModel returns the first model whose id matches, along with its provider.
func (c *Catalog) FindModel(id string) (Provider, Model, bool) {
	for _, p := range c.Providers {
		for _, m := range p.Models {
			if m.ID == id {
				return p, m, true
			}
		}
	}
	return Provider{}, Model{}, false
}

// FindTool returns the tool with the given id.
func (c *Catalog) FindTool(id string) (Tool, bool) {
	for _, t := range c.Tools {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}

// SearchResult is one hit from Search.
type SearchResult struct {
	Kind     string // "provider", "model", "tool"
	ID       string
	Name     string
	Provider string // set for models
}

// Search does a case-insensitive substring match over provider, model, and
// tool ids and names. Results are sorted by kind then id.
func (c *Catalog) Search(term string) []SearchResult {
	term = strings.ToLower(term)
	var out []SearchResult
	for _, p := range c.Providers {
		if matches(term, p.ID, p.Name) {
			out = append(out, SearchResult{Kind: "provider", ID: p.ID, Name: p.Name})
		}
		for _, m := range p.Models {
			if matches(term, m.ID, m.Name) {
				out = append(out, SearchResult{Kind: "model", ID: m.ID, Name: m.Name, Provider: p.ID})
			}
		}
	}
	for _, t := range c.Tools {
		if matches(term, t.ID, t.Name) {
			out = append(out, SearchResult{Kind: "tool", ID: t.ID, Name: t.Name})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func matches(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
