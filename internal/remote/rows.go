// Package remote talks to the hosted data service: row↔entity mapping and
// a small REST client for per-owner selects, upserts and deletes.
//
// The remote stores rows with snake_case columns. Timestamp columns have
// historically held either numeric epoch-ms or ISO-8601 strings; reads
// accept both and writes always emit epoch-ms (timex.Millis), so sort
// order on those columns stays consistent.
package remote

import (
	"github.com/antonpav/pad/internal/models"
	"github.com/antonpav/pad/internal/timex"
)

// DiaryRow is the diaries table shape.
type DiaryRow struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	FolderID  string       `json:"folder_id,omitempty"`
	Tags      []string     `json:"tags"`
	CreatedAt timex.Millis `json:"created_at"`
	UpdatedAt timex.Millis `json:"updated_at"`
}

// FolderRow is the folders table shape.
type FolderRow struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Name      string       `json:"name"`
	ParentID  string       `json:"parent_id,omitempty"`
	Color     string       `json:"color,omitempty"`
	CreatedAt timex.Millis `json:"created_at"`
}

// TaskRow is the tasks table shape. Task.Order maps to sort_order.
type TaskRow struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	Title          string       `json:"title"`
	Notes          string       `json:"notes,omitempty"`
	CreatedAt      timex.Millis `json:"created_at"`
	DueAt          timex.Millis `json:"due_at,omitempty"`
	Completed      bool         `json:"completed"`
	Recurring      string       `json:"recurring,omitempty"`
	RelatedDiaryID string       `json:"related_diary_id,omitempty"`
	TaskType       string       `json:"task_type"`
	StartDate      timex.Millis `json:"start_date,omitempty"`
	EndDate        timex.Millis `json:"end_date,omitempty"`
	CompletedAt    timex.Millis `json:"completed_at,omitempty"`
	SortOrder      int          `json:"sort_order"`
}

// DiaryToRow maps a local diary to its remote row, stamping the owner.
func DiaryToRow(userID string, d models.Diary) DiaryRow {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return DiaryRow{
		ID:        d.ID,
		UserID:    userID,
		Title:     d.Title,
		Content:   d.Content,
		FolderID:  d.FolderID,
		Tags:      tags,
		CreatedAt: timex.Millis(d.CreatedAt),
		UpdatedAt: timex.Millis(d.UpdatedAt),
	}
}

// DiaryFromRow maps a remote row back to the local shape.
func DiaryFromRow(r DiaryRow) models.Diary {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Diary{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		FolderID:  r.FolderID,
		Tags:      tags,
		CreatedAt: int64(r.CreatedAt),
		UpdatedAt: int64(r.UpdatedAt),
	}
}

// FolderToRow maps a local folder to its remote row.
func FolderToRow(userID string, f models.Folder) FolderRow {
	return FolderRow{
		ID:        f.ID,
		UserID:    userID,
		Name:      f.Name,
		ParentID:  f.ParentID,
		Color:     f.Color,
		CreatedAt: timex.Millis(f.CreatedAt),
	}
}

// FolderFromRow maps a remote row back to the local shape.
func FolderFromRow(r FolderRow) models.Folder {
	return models.Folder{
		ID:        r.ID,
		Name:      r.Name,
		ParentID:  r.ParentID,
		Color:     r.Color,
		CreatedAt: int64(r.CreatedAt),
	}
}

// TaskToRow maps a local task to its remote row.
func TaskToRow(userID string, t models.Task) TaskRow {
	return TaskRow{
		ID:             t.ID,
		UserID:         userID,
		Title:          t.Title,
		Notes:          t.Notes,
		CreatedAt:      timex.Millis(t.CreatedAt),
		DueAt:          timex.Millis(t.DueAt),
		Completed:      t.Completed,
		Recurring:      t.Recurring,
		RelatedDiaryID: t.RelatedDiaryID,
		TaskType:       string(t.TaskType),
		StartDate:      timex.Millis(t.StartDate),
		EndDate:        timex.Millis(t.EndDate),
		CompletedAt:    timex.Millis(t.CompletedAt),
		SortOrder:      t.Order,
	}
}

// TaskFromRow maps a remote row back to the local shape.
func TaskFromRow(r TaskRow) models.Task {
	return models.Task{
		ID:             r.ID,
		Title:          r.Title,
		Notes:          r.Notes,
		CreatedAt:      int64(r.CreatedAt),
		DueAt:          int64(r.DueAt),
		Completed:      r.Completed,
		Recurring:      r.Recurring,
		RelatedDiaryID: r.RelatedDiaryID,
		TaskType:       models.TaskType(r.TaskType),
		StartDate:      int64(r.StartDate),
		EndDate:        int64(r.EndDate),
		CompletedAt:    int64(r.CompletedAt),
		Order:          r.SortOrder,
	}
}
