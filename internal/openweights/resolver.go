// Package openweights joins the benchmark catalog against the provider
// catalog to decide which benchmarked models have open weights. The two
// catalogs use different naming schemes, so the join is fuzzy: normalized
// string containment with a fixed creator translation table.
package openweights

import (
	"math"
	"strings"

	"github.com/fentz26/agentdeck/internal/benchmarks"
	"github.com/fentz26/agentdeck/internal/catalog"
)

// Model is one provider model as the resolver sees it.
type Model struct {
	ID          string
	OpenWeights bool
}

// exactScore is returned for an exact normalized match; it short-circuits the
// search for that entry.
const exactScore = math.MaxInt

// creatorAliases maps normalized benchmark creator ids to provider ids for
// the known naming divergences. Creators not listed here default to identity
// (normalized creator == normalized provider id).
var creatorAliases = map[string][]string{
	"meta":    {"meta-llama"},
	"mistral": {"mistralai"},
	"alibaba": {"qwen"},
}

// Resolve maps each benchmark entry's slug to the open-weights flag of its
// best-matching provider model. Entries with an empty creator or slug, a
// creator that matches no provider, or no positive-score model match are
// absent from the result: absence means "unknown", never "false".
func Resolve(providers map[string][]Model, entries []benchmarks.Record) map[string]bool {
	// Index providers by normalized id for the identity fallback.
	byNorm := make(map[string]string, len(providers))
	for id := range providers {
		byNorm[normalize(id)] = id
	}

	out := make(map[string]bool)
	for _, entry := range entries {
		creator := normalize(entry.Creator)
		slug := normalize(entry.Slug)
		if creator == "" || slug == "" {
			continue
		}

		candidates := creatorAliases[creator]
		if candidates == nil {
			if id, ok := byNorm[creator]; ok {
				candidates = []string{id}
			}
		}

		best := 0
		var bestModel Model
		for _, prov := range candidates {
			models, ok := providers[prov]
			if !ok {
				continue
			}
			for _, m := range models {
				score := matchScore(slug, normalize(m.ID))
				if score == exactScore {
					best, bestModel = score, m
					break
				}
				// Ties resolve to the lexicographically smaller model id so
				// the result does not depend on iteration order.
				if score > best || (score == best && score > 0 && m.ID < bestModel.ID) {
					best, bestModel = score, m
				}
			}
			if best == exactScore {
				break
			}
		}

		if best > 0 {
			out[entry.Slug] = bestModel.OpenWeights
		}
	}
	return out
}

// FromCatalog converts the static catalog into the resolver's input shape.
func FromCatalog(c *catalog.Catalog) map[string][]Model {
	out := make(map[string][]Model, len(c.Providers))
	for _, p := range c.Providers {
		models := make([]Model, 0, len(p.Models))
		for _, m := range p.Models {
			models = append(models, Model{ID: m.ID, OpenWeights: m.OpenWeights})
		}
		out[p.ID] = models
	}
	return out
}

// matchScore scores a normalized model id against a normalized benchmark
// slug. A longer slug contained in the id outranks the reverse containment,
// preferring the more specific match over noisy substring hits.
func matchScore(slug, modelID string) int {
	switch {
	case slug == modelID:
		return exactScore
	case strings.Contains(modelID, slug):
		return 2 * len(slug)
	case strings.Contains(slug, modelID):
		return len(modelID)
	default:
		return 0
	}
}

// normalize lowercases and strips the separator characters the two catalogs
// disagree on.
func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', '.', ' ':
			return -1
		}
		return r
	}, s)
}
