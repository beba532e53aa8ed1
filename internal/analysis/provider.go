// Package analysis produces summaries, follow-up suggestions and tag
// candidates for diary entries. Providers are interchangeable; the Chain
// provider falls back to a local heuristic so analysis always yields a
// result even without network access or API credentials.
package analysis

import "context"

// Result is the provider-agnostic output of one analysis run.
type Result struct {
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
	Tags        []string `json:"tags"`

	// Source names the provider that produced the result.
	Source string `json:"source"`
}

// Provider analyzes a single piece of diary text.
type Provider interface {
	Analyze(ctx context.Context, text string) (*Result, error)
}
