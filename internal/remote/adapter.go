package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/antonpav/pad/internal/models"
)

// Adapter replays queued sync operations against the row service,
// dispatching by entity type and action. Creates and updates both land on
// the idempotent upsert path, so replaying an operation is harmless.
type Adapter struct {
	c *Client
}

// NewAdapter wraps a Client.
func NewAdapter(c *Client) *Adapter {
	return &Adapter{c: c}
}

// Apply executes one operation remotely.
func (a *Adapter) Apply(ctx context.Context, op models.SyncOperation) error {
	if op.Action == models.ActionDelete {
		id := op.EntityID()
		if id == "" {
			return fmt.Errorf("delete operation %s has no entity id", op.ID)
		}
		switch op.Type {
		case models.EntityDiary:
			return a.c.DeleteDiary(ctx, op.UserID, id)
		case models.EntityFolder:
			return a.c.DeleteFolder(ctx, op.UserID, id)
		case models.EntityTask:
			return a.c.DeleteTask(ctx, op.UserID, id)
		default:
			return fmt.Errorf("unknown entity type %q", op.Type)
		}
	}

	switch op.Type {
	case models.EntityDiary:
		var d models.Diary
		if err := json.Unmarshal(op.Data, &d); err != nil {
			return fmt.Errorf("bad diary snapshot: %w", err)
		}
		return a.c.UpsertDiary(ctx, op.UserID, DiaryToRow(op.UserID, d))
	case models.EntityFolder:
		var f models.Folder
		if err := json.Unmarshal(op.Data, &f); err != nil {
			return fmt.Errorf("bad folder snapshot: %w", err)
		}
		return a.c.UpsertFolder(ctx, op.UserID, FolderToRow(op.UserID, f))
	case models.EntityTask:
		var t models.Task
		if err := json.Unmarshal(op.Data, &t); err != nil {
			return fmt.Errorf("bad task snapshot: %w", err)
		}
		return a.c.UpsertTask(ctx, op.UserID, TaskToRow(op.UserID, t))
	default:
		return fmt.Errorf("unknown entity type %q", op.Type)
	}
}
