package syncqueue

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/antonpav/pad/internal/logging"
	"github.com/antonpav/pad/internal/models"
	"github.com/antonpav/pad/internal/store"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.RunMigrations(context.Background(), db))

	s := store.New(db, "u1", logging.NewText(io.Discard, slog.LevelError))
	q := New(s)
	clock := int64(1700000000000)
	q.now = func() int64 { clock++; return clock }
	return q
}

func TestEnqueue_AssignsIDAndSnapshot(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	op, err := q.Enqueue(ctx, models.EntityDiary, models.ActionCreate, models.Diary{ID: "d1", Title: "x"}, "u1")
	require.NoError(t, err)

	assert.Contains(t, op.ID, "diary-create-")
	assert.Zero(t, op.RetryCount)
	assert.Equal(t, "u1", op.UserID)
	assert.Equal(t, "d1", op.EntityID())
	assert.Equal(t, 1, q.Count(ctx))

	op2, err := q.Enqueue(ctx, models.EntityDiary, models.ActionCreate, models.Diary{ID: "d2"}, "u1")
	require.NoError(t, err)
	assert.NotEqual(t, op.ID, op2.ID)
}

// Dequeueing twice, or an unknown id, never errors and the second call
// leaves the queue unchanged.
func TestDequeue_Idempotent(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	op, err := q.Enqueue(ctx, models.EntityTask, models.ActionDelete, models.Task{ID: "t1"}, "u1")
	require.NoError(t, err)

	require.NoError(t, q.Dequeue(ctx, op.ID))
	assert.Zero(t, q.Count(ctx))

	require.NoError(t, q.Dequeue(ctx, op.ID))
	require.NoError(t, q.Dequeue(ctx, "unknown"))
	assert.Zero(t, q.Count(ctx))
}

func TestUpdateRetry_InPlace(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	first, err := q.Enqueue(ctx, models.EntityDiary, models.ActionUpdate, models.Diary{ID: "d1"}, "u1")
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, models.EntityDiary, models.ActionUpdate, models.Diary{ID: "d2"}, "u1")
	require.NoError(t, err)

	require.NoError(t, q.UpdateRetry(ctx, first.ID, errors.New("network down")))

	ops := q.All(ctx)
	require.Len(t, ops, 2)
	assert.Equal(t, first.ID, ops[0].ID, "entry stays in place, not re-enqueued")
	assert.Equal(t, 1, ops[0].RetryCount)
	assert.Equal(t, "network down", ops[0].LastError)

	require.NoError(t, q.UpdateRetry(ctx, "unknown", errors.New("x")))
}

// Entries reaching MaxRetries are pruned, and pending count drops.
func TestPruneExpired(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	op, err := q.Enqueue(ctx, models.EntityTask, models.ActionDelete, models.Task{ID: "T1"}, "U1")
	require.NoError(t, err)

	for i := 0; i < q.MaxRetries; i++ {
		dropped, perr := q.PruneExpired(ctx)
		require.NoError(t, perr)
		assert.Empty(t, dropped, "not yet expired")
		require.NoError(t, q.UpdateRetry(ctx, op.ID, errors.New("remote failure")))
	}

	dropped, err := q.PruneExpired(ctx)
	require.NoError(t, err)
	require.Len(t, dropped, 1)
	assert.Equal(t, op.ID, dropped[0].ID)
	assert.Zero(t, q.Count(ctx))
	assert.False(t, q.HasEntity(ctx, "T1"))
}

func TestByTypeAndHasEntity(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, models.EntityDiary, models.ActionCreate, models.Diary{ID: "d1"}, "u1")
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, models.EntityFolder, models.ActionCreate, models.Folder{ID: "f1"}, "u1")
	require.NoError(t, err)

	assert.Len(t, q.ByType(ctx, models.EntityDiary), 1)
	assert.Len(t, q.ByType(ctx, models.EntityTask), 0)
	assert.True(t, q.HasEntity(ctx, "f1"))
	assert.False(t, q.HasEntity(ctx, "zzz"))
}

// An enqueuer and a drainer running at the same time must not lose
// operations: each mutation is a load-mutate-save cycle, and an
// unserialized Dequeue saving a stale snapshot would silently discard a
// concurrently enqueued entry.
func TestConcurrentEnqueueDequeue_LosesNothing(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	const n = 300
	seeded := make([]string, 0, n)
	for i := 0; i < n; i++ {
		op, err := q.Enqueue(ctx, models.EntityTask, models.ActionDelete, models.Task{ID: "seed"}, "u1")
		require.NoError(t, err)
		seeded = append(seeded, op.ID)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, id := range seeded {
			_ = q.Dequeue(ctx, id)
		}
	}()

	want := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		op, err := q.Enqueue(ctx, models.EntityDiary, models.ActionUpdate, models.Diary{ID: "live"}, "u1")
		require.NoError(t, err)
		want[op.ID] = true
	}
	<-done

	ops := q.All(ctx)
	require.Len(t, ops, n, "every concurrently enqueued operation survives the drain")
	for _, op := range ops {
		assert.True(t, want[op.ID], "unexpected survivor %s", op.ID)
	}
}

func TestQueueSurvivesReopen(t *testing.T) {
	// Same DB handle, fresh Queue/Store values: the queue is durable state,
	// not memory.
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	require.NoError(t, store.RunMigrations(ctx, db))
	log := logging.NewText(io.Discard, slog.LevelError)

	q1 := New(store.New(db, "u1", log))
	_, err = q1.Enqueue(ctx, models.EntityDiary, models.ActionCreate, models.Diary{ID: "d1"}, "u1")
	require.NoError(t, err)

	q2 := New(store.New(db, "u1", log))
	assert.Equal(t, 1, q2.Count(ctx))
}
