package models

// Backup is a point-in-time snapshot of diaries and folders, appended when
// a save produces content that differs from the previous snapshot. The
// store keeps at most a fixed number of backups, dropping the oldest.
type Backup struct {
	// Timestamp is the snapshot time in epoch-ms.
	Timestamp int64 `json:"timestamp"`

	Diaries []Diary `json:"diaries"`

	Folders []Folder `json:"folders"`
}

// SyncHistoryRecord summarizes one queue drain pass for display and for
// the dead-letter trail.
type SyncHistoryRecord struct {
	// Timestamp is the pass completion time in epoch-ms.
	Timestamp int64 `json:"timestamp"`

	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`

	// Dropped lists operations discarded after exhausting retries.
	Dropped []SyncOperation `json:"dropped,omitempty"`
}

// AISettings holds the user's analysis provider preferences.
type AISettings struct {
	// Provider selects the primary analysis backend ("anthropic" or
	// "heuristic").
	Provider string `json:"provider"`

	Model string `json:"model,omitempty"`

	// MaxSuggestions caps the suggestion list length.
	MaxSuggestions int `json:"maxSuggestions,omitempty"`
}
