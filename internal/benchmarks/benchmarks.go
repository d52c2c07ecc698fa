// Package benchmarks fetches and caches the competitive benchmark snapshot
// served from the CDN.
package benchmarks

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed baseline.json
var baselineJSON []byte

// Record is one model's benchmark scores. Every metric is optional: a nil
// pointer means the model was not evaluated on that benchmark, which is
// different from scoring zero.
type Record struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Creator     string `json:"creator"`
	CreatorName string `json:"creator_name,omitempty"`

	GPQA          *float64 `json:"gpqa,omitempty"`
	MMLU          *float64 `json:"mmlu,omitempty"`
	MMLUPro       *float64 `json:"mmlu_pro,omitempty"`
	HumanEval     *float64 `json:"humaneval,omitempty"`
	MBPP          *float64 `json:"mbpp,omitempty"`
	Math          *float64 `json:"math,omitempty"`
	GSM8K         *float64 `json:"gsm8k,omitempty"`
	AIME2024      *float64 `json:"aime_2024,omitempty"`
	SWEBench      *float64 `json:"swe_bench_verified,omitempty"`
	LiveCodeBench *float64 `json:"livecodebench,omitempty"`
	SciCode       *float64 `json:"scicode,omitempty"`
	IFEval        *float64 `json:"ifeval,omitempty"`
	BFCL          *float64 `json:"bfcl,omitempty"`
	DROP          *float64 `json:"drop,omitempty"`
	HellaSwag     *float64 `json:"hellaswag,omitempty"`
	ArenaElo      *float64 `json:"arena_elo,omitempty"`
	MGSM          *float64 `json:"mgsm,omitempty"`
	SimpleBench   *float64 `json:"simple_bench,omitempty"`
}

// Baseline returns the bundled snapshot shipped with the binary, used when
// neither the disk cache nor the network can supply entries so the UI is
// never empty.
func Baseline() []Record {
	var records []Record
	if err := json.Unmarshal(baselineJSON, &records); err != nil {
		// The embed is validated by tests; reaching this is a packaging bug.
		panic(fmt.Sprintf("benchmarks: embedded baseline: %v", err))
	}
	return records
}
