// Package syncqueue implements a durable, at-least-once delivery buffer
// for mutations that still have to reach the remote replica. Entries live
// in the local store under the sync_queue key and survive restarts.
package syncqueue

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/antonpav/pad/internal/common"
	"github.com/antonpav/pad/internal/models"
	"github.com/antonpav/pad/internal/store"
)

// Queue is an append-only list of pending sync operations backed by a
// Store. Construct one per session; there is no shared singleton. Safe
// for concurrent use: mutations are read-modify-write cycles over the
// stored list, so they are serialized under an internal mutex (the REPL
// enqueues while background drain goroutines dequeue).
type Queue struct {
	store *store.Store

	// mu serializes the load-mutate-save cycle of every mutation.
	mu sync.Mutex

	// MaxRetries bounds delivery attempts per operation; entries at or
	// above it are removed by PruneExpired.
	MaxRetries int

	// now is a test seam for timestamping.
	now func() int64
}

// New returns a Queue persisting through s.
func New(s *store.Store) *Queue {
	return &Queue{store: s, MaxRetries: common.MaxRetries, now: millisNow}
}

// Enqueue appends a new operation with retryCount=0 and returns it. The
// data snapshot is serialized at enqueue time, so later local edits never
// change what gets replayed.
func (q *Queue) Enqueue(ctx context.Context, typ models.EntityType, action models.Action, data any, userID string) (models.SyncOperation, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return models.SyncOperation{}, fmt.Errorf("failed to snapshot %s %s: %w", typ, action, err)
	}

	now := q.now()
	op := models.SyncOperation{
		ID:        fmt.Sprintf("%s-%s-%d-%s", typ, action, now, randSuffix()),
		Type:      typ,
		Action:    action,
		Data:      raw,
		UserID:    userID,
		Timestamp: now,
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	ops := q.store.GetSyncQueue(ctx)
	if err := q.store.SaveSyncQueue(ctx, append(ops, op)); err != nil {
		return models.SyncOperation{}, err
	}
	return op, nil
}

// Dequeue removes the operation with the given id. Removing an unknown id
// is not an error; Dequeue is idempotent.
func (q *Queue) Dequeue(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	ops := q.store.GetSyncQueue(ctx)
	kept := ops[:0]
	for _, op := range ops {
		if op.ID != id {
			kept = append(kept, op)
		}
	}
	if len(kept) == len(ops) {
		return nil
	}
	return q.store.SaveSyncQueue(ctx, kept)
}

// UpdateRetry increments the operation's retry counter and records the
// error. The entry stays in place; it is not re-enqueued at the tail.
func (q *Queue) UpdateRetry(ctx context.Context, id string, cause error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	ops := q.store.GetSyncQueue(ctx)
	for i := range ops {
		if ops[i].ID != id {
			continue
		}
		ops[i].RetryCount++
		if cause != nil {
			ops[i].LastError = cause.Error()
		}
		return q.store.SaveSyncQueue(ctx, ops)
	}
	return nil
}

// PruneExpired removes operations whose retry count reached MaxRetries and
// returns them. It runs after a drain pass, not inside UpdateRetry, so an
// entry can briefly sit at the limit until the next prune.
func (q *Queue) PruneExpired(ctx context.Context) ([]models.SyncOperation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ops := q.store.GetSyncQueue(ctx)
	kept := make([]models.SyncOperation, 0, len(ops))
	var dropped []models.SyncOperation
	for _, op := range ops {
		if op.RetryCount >= q.MaxRetries {
			dropped = append(dropped, op)
			continue
		}
		kept = append(kept, op)
	}
	if len(dropped) == 0 {
		return nil, nil
	}
	if err := q.store.SaveSyncQueue(ctx, kept); err != nil {
		return nil, err
	}
	return dropped, nil
}

// All returns a snapshot of the queue in insertion order.
func (q *Queue) All(ctx context.Context) []models.SyncOperation {
	return q.store.GetSyncQueue(ctx)
}

// Count returns the number of pending operations, for UI badges.
func (q *Queue) Count(ctx context.Context) int {
	return len(q.store.GetSyncQueue(ctx))
}

// ByType returns pending operations of one entity type, in order.
func (q *Queue) ByType(ctx context.Context, typ models.EntityType) []models.SyncOperation {
	var out []models.SyncOperation
	for _, op := range q.store.GetSyncQueue(ctx) {
		if op.Type == typ {
			out = append(out, op)
		}
	}
	return out
}

// HasEntity reports whether any pending operation references the entity id.
func (q *Queue) HasEntity(ctx context.Context, id string) bool {
	for _, op := range q.store.GetSyncQueue(ctx) {
		if op.EntityID() == id {
			return true
		}
	}
	return false
}

func millisNow() int64 { return time.Now().UnixMilli() }

// randSuffix returns a short random hex string. Uniqueness is best-effort:
// the id is only a local correlation key.
func randSuffix() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b)
}
