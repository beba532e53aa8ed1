package models

// AnalysisResult captures one AI (or heuristic) analysis of a diary entry.
// Results are append-only history: they are created, never mutated, and
// they never leave the local store.
type AnalysisResult struct {
	ID string `json:"id"`

	// DiaryID links the result to the analyzed entry; may be empty for
	// free-form analyses.
	DiaryID string `json:"diaryId,omitempty"`

	Summary string `json:"summary"`

	// Suggestions is an ordered list of follow-up prompts.
	Suggestions []string `json:"suggestions"`

	// Tags are suggested labels, case-folded like diary tags.
	Tags []string `json:"tags"`

	CreatedAt int64 `json:"createdAt"`

	// Source names the producer ("anthropic", "heuristic", ...).
	Source string `json:"source,omitempty"`
}
