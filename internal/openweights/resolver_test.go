package openweights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/agentdeck/internal/benchmarks"
	"github.com/fentz26/agentdeck/internal/catalog"
)

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		modelID string
		want    int
	}{
		{"exact", "gpt4o", "gpt4o", exactScore},
		{"slug inside model id", "claude35sonnet", "claude35sonnet20241022", 2 * len("claude35sonnet")},
		{"model id inside slug", "o3minihigh", "o3mini", len("o3mini")},
		{"no containment", "gpt4o", "claude35sonnet", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchScore(tt.slug, tt.modelID))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "claude35sonnet", normalize("Claude-3.5_Sonnet"))
	assert.Equal(t, "metallama", normalize("meta-llama"))
	assert.Equal(t, "gpt4o", normalize("GPT 4o"))
}

func TestResolveIdentityCreator(t *testing.T) {
	providers := map[string][]Model{
		"openai": {{ID: "gpt-4o", OpenWeights: false}},
	}
	entries := []benchmarks.Record{{Slug: "gpt-4o", Creator: "openai"}}

	got := Resolve(providers, entries)
	flag, ok := got["gpt-4o"]
	require.True(t, ok)
	assert.False(t, flag)
}

func TestResolveTranslatedCreator(t *testing.T) {
	providers := map[string][]Model{
		"meta-llama": {{ID: "llama-3.1-405b-instruct", OpenWeights: true}},
	}
	entries := []benchmarks.Record{{Slug: "llama-3-1-405b-instruct", Creator: "meta"}}

	got := Resolve(providers, entries)
	flag, ok := got["llama-3-1-405b-instruct"]
	require.True(t, ok, "meta must translate to meta-llama")
	assert.True(t, flag)
}

func TestResolveUnknownCreatorAbsent(t *testing.T) {
	providers := map[string][]Model{
		"openai": {{ID: "gpt-4o"}},
	}
	entries := []benchmarks.Record{{Slug: "some-model", Creator: "nobody-knows"}}

	got := Resolve(providers, entries)
	_, ok := got["some-model"]
	assert.False(t, ok, "unmatched entry must be absent, never present with false")
}

func TestResolveNoPositiveScoreAbsent(t *testing.T) {
	providers := map[string][]Model{
		"openai": {{ID: "gpt-4o"}},
	}
	entries := []benchmarks.Record{{Slug: "totally-different", Creator: "openai"}}

	got := Resolve(providers, entries)
	assert.Empty(t, got)
}

func TestResolveEmptyFieldsSkipped(t *testing.T) {
	providers := map[string][]Model{
		"openai": {{ID: "gpt-4o"}},
	}
	entries := []benchmarks.Record{
		{Slug: "", Creator: "openai"},
		{Slug: "gpt-4o", Creator: ""},
	}

	assert.Empty(t, Resolve(providers, entries))
}

func TestResolvePrefersLongerSlugContainment(t *testing.T) {
	// Both models contain the slug; the exact one wins outright.
	providers := map[string][]Model{
		"anthropic": {
			{ID: "claude-3-5-sonnet-20241022", OpenWeights: false},
			{ID: "claude-3-5-sonnet-20241022-extended-thinking", OpenWeights: true},
		},
	}
	entries := []benchmarks.Record{{Slug: "claude-3-5-sonnet-20241022", Creator: "anthropic"}}

	got := Resolve(providers, entries)
	require.Contains(t, got, "claude-3-5-sonnet-20241022")
	assert.False(t, got["claude-3-5-sonnet-20241022"], "exact match must win over longer containment")
}

func TestResolveDeterministicTieBreak(t *testing.T) {
	// Two ids of equal length both contain the slug: equal scores. The
	// lexicographically smaller id must win regardless of slice order.
	providers := map[string][]Model{
		"acme": {
			{ID: "model-x-bbb", OpenWeights: true},
			{ID: "model-x-aaa", OpenWeights: false},
		},
	}
	entries := []benchmarks.Record{{Slug: "model-x", Creator: "acme"}}

	got := Resolve(providers, entries)
	require.Contains(t, got, "model-x")
	assert.False(t, got["model-x"], "tie must resolve to model-x-aaa")
}

func TestResolveAgainstShippedCatalog(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	got := Resolve(FromCatalog(cat), benchmarks.Baseline())

	// Closed-weight flagship resolves to false.
	flag, ok := got["gpt-4o"]
	require.True(t, ok)
	assert.False(t, flag)

	// Open-weight models resolve to true through the translation table.
	flag, ok = got["deepseek-r1"]
	require.True(t, ok)
	assert.True(t, flag)

	flag, ok = got["llama-3-1-405b-instruct"]
	require.True(t, ok)
	assert.True(t, flag)

	flag, ok = got["qwen-3-235b-a22b"]
	require.True(t, ok, "alibaba must translate to qwen")
	assert.True(t, flag)
}
