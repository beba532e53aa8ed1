// Package models defines the persisted domain records of the diary keeper:
// diaries, folders, tasks, analysis results, sync operations and backups.
//
// Timestamps are milliseconds since the Unix epoch throughout. The local
// store is the canonical owner of every record; the remote service holds a
// best-effort replica.
package models

import "strings"

// Diary is a single journal entry. Content is a sanitized HTML fragment
// produced by the editing surface; this layer treats it as opaque.
type Diary struct {
	// ID is a globally unique identifier.
	ID string `json:"id"`

	// Title is the user-visible name of the entry.
	Title string `json:"title"`

	// Content is a sanitized HTML fragment.
	Content string `json:"content"`

	// FolderID is a weak reference to a Folder; empty means unfiled.
	// Deleting the folder resets this to empty, never deletes the diary.
	FolderID string `json:"folderId,omitempty"`

	// Tags are case-folded, deduplicated labels.
	Tags []string `json:"tags"`

	// CreatedAt is the creation time in epoch-ms.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the last modification time in epoch-ms.
	// Invariant: UpdatedAt >= CreatedAt.
	UpdatedAt int64 `json:"updatedAt"`
}

// NormalizeTags lowercases, deduplicates and compacts a tag list while
// preserving first-seen order. Empty tags are dropped.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
