package syncmgr

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/antonpav/pad/internal/logging"
	"github.com/antonpav/pad/internal/models"
	"github.com/antonpav/pad/internal/store"
	"github.com/antonpav/pad/internal/syncqueue"
)

// fakeRemote scripts Apply outcomes per entity id.
type fakeRemote struct {
	failIDs map[string]bool
	applied []models.SyncOperation
	hook    func(op models.SyncOperation)
}

func (f *fakeRemote) Apply(ctx context.Context, op models.SyncOperation) error {
	if f.hook != nil {
		f.hook(op)
	}
	if f.failIDs[op.EntityID()] {
		return errors.New("remote failure")
	}
	f.applied = append(f.applied, op)
	return nil
}

type env struct {
	store  *store.Store
	queue  *syncqueue.Queue
	remote *fakeRemote
	mgr    *Manager
}

func newEnv(t *testing.T, opts Options) *env {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	require.NoError(t, store.RunMigrations(ctx, db))

	log := logging.NewText(io.Discard, slog.LevelError)
	st := store.New(db, "u1", log)
	q := syncqueue.New(st)
	r := &fakeRemote{failIDs: map[string]bool{}}
	return &env{store: st, queue: q, remote: r, mgr: New(q, r, st, log, opts)}
}

func (e *env) enqueue(t *testing.T, typ models.EntityType, action models.Action, data any) models.SyncOperation {
	t.Helper()
	op, err := e.queue.Enqueue(context.Background(), typ, action, data, "u1")
	require.NoError(t, err)
	return op
}

func TestProcessQueue_SuccessDrains(t *testing.T) {
	e := newEnv(t, Options{})
	ctx := context.Background()

	e.enqueue(t, models.EntityDiary, models.ActionCreate, models.Diary{ID: "d1"})
	e.enqueue(t, models.EntityFolder, models.ActionUpdate, models.Folder{ID: "f1"})

	stats, err := e.mgr.ProcessQueue(ctx)
	require.NoError(t, err)
	assert.Equal(t, PassStats{Processed: 2, Succeeded: 2}, stats)
	assert.Zero(t, e.mgr.PendingCount(ctx))
	assert.Len(t, e.remote.applied, 2)
}

// One failing operation never aborts the batch.
func TestProcessQueue_NoFailFast(t *testing.T) {
	e := newEnv(t, Options{})
	ctx := context.Background()

	e.remote.failIDs["d1"] = true
	e.enqueue(t, models.EntityDiary, models.ActionCreate, models.Diary{ID: "d1"})
	e.enqueue(t, models.EntityTask, models.ActionCreate, models.Task{ID: "t1"})

	stats, err := e.mgr.ProcessQueue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Succeeded)

	ops := e.queue.All(ctx)
	require.Len(t, ops, 1)
	assert.Equal(t, "d1", ops[0].EntityID())
	assert.Equal(t, 1, ops[0].RetryCount)
	assert.Equal(t, "remote failure", ops[0].LastError)
}

// Five failing passes remove the operation entirely.
func TestProcessQueue_RetryExhaustionDrops(t *testing.T) {
	e := newEnv(t, Options{DropPolicy: DropSilent})
	ctx := context.Background()

	e.remote.failIDs["T1"] = true
	e.enqueue(t, models.EntityTask, models.ActionDelete, models.Task{ID: "T1"})

	for i := 0; i < 5; i++ {
		_, err := e.mgr.ProcessQueue(ctx)
		require.NoError(t, err)
	}

	assert.Zero(t, e.mgr.PendingCount(ctx))
	assert.False(t, e.queue.HasEntity(ctx, "T1"))
}

// Once an operation for an entity fails, later queued operations for the
// same entity are skipped that pass, preserving per-entity order.
func TestProcessQueue_PerEntityBarrier(t *testing.T) {
	e := newEnv(t, Options{})
	ctx := context.Background()

	e.remote.failIDs["d1"] = true
	e.enqueue(t, models.EntityDiary, models.ActionCreate, models.Diary{ID: "d1", Title: "v1"})
	e.enqueue(t, models.EntityDiary, models.ActionUpdate, models.Diary{ID: "d1", Title: "v2"})
	e.enqueue(t, models.EntityDiary, models.ActionCreate, models.Diary{ID: "d2"})

	stats, err := e.mgr.ProcessQueue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Succeeded)

	ops := e.queue.All(ctx)
	require.Len(t, ops, 2)
	assert.Equal(t, 1, ops[0].RetryCount)
	assert.Zero(t, ops[1].RetryCount, "skipped op burns no retry")
}

func TestProcessQueue_OfflineNoop(t *testing.T) {
	online := false
	e := newEnv(t, Options{Online: func() bool { return online }})
	ctx := context.Background()

	e.enqueue(t, models.EntityDiary, models.ActionCreate, models.Diary{ID: "d1"})

	stats, err := e.mgr.ProcessQueue(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Processed)
	assert.Equal(t, 1, e.mgr.PendingCount(ctx))

	online = true
	stats, err = e.mgr.ProcessQueue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Succeeded)
}

// Operations enqueued during a pass belong to the next generation.
func TestProcessQueue_OneGenerationPerCall(t *testing.T) {
	e := newEnv(t, Options{})
	ctx := context.Background()

	var enqueued atomic.Bool
	e.remote.hook = func(op models.SyncOperation) {
		if enqueued.CompareAndSwap(false, true) {
			e.enqueue(t, models.EntityDiary, models.ActionCreate, models.Diary{ID: "late"})
		}
	}
	e.enqueue(t, models.EntityDiary, models.ActionCreate, models.Diary{ID: "early"})

	stats, err := e.mgr.ProcessQueue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 1, e.mgr.PendingCount(ctx), "late op waits for the next pass")
}

func TestProcessQueue_SingleFlight(t *testing.T) {
	e := newEnv(t, Options{})
	ctx := context.Background()

	gate := make(chan struct{})
	started := make(chan struct{})
	e.remote.hook = func(models.SyncOperation) {
		close(started)
		<-gate
	}
	e.enqueue(t, models.EntityDiary, models.ActionCreate, models.Diary{ID: "d1"})

	done := make(chan PassStats, 1)
	go func() {
		stats, _ := e.mgr.ProcessQueue(ctx)
		done <- stats
	}()
	<-started

	stats, err := e.mgr.ProcessQueue(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Processed, "second call is a no-op while a pass runs")

	close(gate)
	first := <-done
	assert.Equal(t, 1, first.Succeeded)
}

func TestProcessQueue_DropNotify(t *testing.T) {
	e := newEnv(t, Options{DropPolicy: DropNotify})
	ctx := context.Background()

	var dead []models.SyncOperation
	e.mgr.OnDeadLetter(func(ops []models.SyncOperation) { dead = append(dead, ops...) })

	e.remote.failIDs["T1"] = true
	e.enqueue(t, models.EntityTask, models.ActionDelete, models.Task{ID: "T1"})

	for i := 0; i < 5; i++ {
		_, err := e.mgr.ProcessQueue(ctx)
		require.NoError(t, err)
	}

	require.Len(t, dead, 1)
	assert.Equal(t, "T1", dead[0].EntityID())

	history := e.store.GetSyncHistory(ctx)
	require.NotEmpty(t, history)
	assert.Len(t, history[len(history)-1].Dropped, 1)
}

func TestProcessQueue_DropSilentNoCallback(t *testing.T) {
	e := newEnv(t, Options{DropPolicy: DropSilent})
	ctx := context.Background()

	called := false
	e.mgr.OnDeadLetter(func([]models.SyncOperation) { called = true })

	e.remote.failIDs["T1"] = true
	e.enqueue(t, models.EntityTask, models.ActionDelete, models.Task{ID: "T1"})
	for i := 0; i < 5; i++ {
		_, err := e.mgr.ProcessQueue(ctx)
		require.NoError(t, err)
	}

	assert.False(t, called)
	for _, rec := range e.store.GetSyncHistory(ctx) {
		assert.Empty(t, rec.Dropped)
	}
}

func TestProcessQueue_ListenersNotified(t *testing.T) {
	e := newEnv(t, Options{})
	ctx := context.Background()

	var got []PassStats
	e.mgr.OnPass(func(s PassStats) { got = append(got, s) })

	e.enqueue(t, models.EntityDiary, models.ActionCreate, models.Diary{ID: "d1"})
	_, err := e.mgr.ProcessQueue(ctx)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Succeeded)
}

func TestProcessQueue_OpTimeout(t *testing.T) {
	e := newEnv(t, Options{OpTimeout: 20 * time.Millisecond})
	ctx := context.Background()

	slow := &slowRemote{}
	e.mgr.remote = slow

	e.enqueue(t, models.EntityDiary, models.ActionCreate, models.Diary{ID: "d1"})
	stats, err := e.mgr.ProcessQueue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed, "hung call is bounded by the per-op timeout")
}

type slowRemote struct{}

func (s *slowRemote) Apply(ctx context.Context, op models.SyncOperation) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestWatchOnline_DrainsOnReconnect(t *testing.T) {
	var online atomic.Bool
	e := newEnv(t, Options{Online: func() bool { return online.Load() }})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e.enqueue(t, models.EntityDiary, models.ActionCreate, models.Diary{ID: "d1"})

	go e.mgr.WatchOnline(ctx, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, e.mgr.PendingCount(ctx), "nothing drains while offline")

	online.Store(true)
	assert.Eventually(t, func() bool {
		return e.mgr.PendingCount(context.Background()) == 0
	}, time.Second, 10*time.Millisecond)
}
