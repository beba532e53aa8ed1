// Package syncmgr drains the sync queue against the remote service: one
// pass at a time, one operation at a time, sequential retries, bounded by
// the queue's retry limit. A single operation's failure never aborts the
// rest of the pass.
package syncmgr

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/antonpav/pad/internal/logging"
	"github.com/antonpav/pad/internal/models"
	"github.com/antonpav/pad/internal/store"
	"github.com/antonpav/pad/internal/syncqueue"
)

// Applier replays one queued operation remotely.
type Applier interface {
	Apply(ctx context.Context, op models.SyncOperation) error
}

// DropPolicy decides what happens to operations pruned after exhausting
// their retries.
type DropPolicy int

const (
	// DropNotify records dropped operations in sync history and hands
	// them to the dead-letter callback.
	DropNotify DropPolicy = iota

	// DropSilent discards exhausted operations without a trace beyond the
	// pending count shrinking.
	DropSilent
)

// Options configures a Manager.
type Options struct {
	// OpTimeout bounds each remote call. Zero means 30s.
	OpTimeout time.Duration

	// DropPolicy selects the fate of retry-exhausted operations.
	DropPolicy DropPolicy

	// Online reports network availability; nil means always online.
	Online func() bool
}

// PassStats summarizes one drain pass.
type PassStats struct {
	Processed int
	Succeeded int
	Failed    int
	Skipped   int
	Dropped   int
}

// Manager serializes queue draining. Construct one per session and share
// it; ProcessQueue is single-flight within one Manager only: two
// processes pointed at the same database are not coordinated.
type Manager struct {
	queue  *syncqueue.Queue
	remote Applier
	store  *store.Store
	log    logging.Logger
	opts   Options

	processing atomic.Bool

	mu         sync.Mutex
	listeners  []func(PassStats)
	deadLetter []func([]models.SyncOperation)
}

// New returns a Manager draining queue through remote, recording history
// in st.
func New(queue *syncqueue.Queue, remote Applier, st *store.Store, log logging.Logger, opts Options) *Manager {
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 30 * time.Second
	}
	return &Manager{
		queue:  queue,
		remote: remote,
		store:  st,
		log:    log.With("component", "syncmgr"),
		opts:   opts,
	}
}

// OnPass registers a listener invoked after every completed drain pass,
// e.g. to refresh a pending-operations badge.
func (m *Manager) OnPass(fn func(PassStats)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// OnDeadLetter registers a callback receiving operations dropped after
// exhausting retries. Only invoked under DropNotify.
func (m *Manager) OnDeadLetter(fn func([]models.SyncOperation)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deadLetter = append(m.deadLetter, fn)
}

// PendingCount reports the number of queued operations.
func (m *Manager) PendingCount(ctx context.Context) int {
	return m.queue.Count(ctx)
}

func (m *Manager) online() bool {
	return m.opts.Online == nil || m.opts.Online()
}

// ProcessQueue drains one generation of the queue: the operations present
// when the pass starts. Operations enqueued during the pass wait for the
// next one. It is a no-op while another pass runs on this Manager or
// while the network is reported offline.
//
// Each operation gets its own timeout context. Success dequeues it;
// failure bumps its retry counter in place and the pass moves on. Once an
// operation for some entity fails, later operations for the same entity
// are skipped for the rest of the pass (their retry counters untouched),
// so a newer mutation can never overtake an older one that is still
// queued. After the pass, retry-exhausted entries are pruned according to
// the drop policy.
func (m *Manager) ProcessQueue(ctx context.Context) (PassStats, error) {
	var stats PassStats

	if !m.online() {
		m.log.Debug(ctx, "offline, skipping queue drain")
		return stats, nil
	}
	if !m.processing.CompareAndSwap(false, true) {
		m.log.Debug(ctx, "drain already in progress")
		return stats, nil
	}
	defer m.processing.Store(false)

	ops := m.queue.All(ctx)
	failed := make(map[string]bool)

	for _, op := range ops {
		if ctx.Err() != nil {
			break
		}

		entityID := op.EntityID()
		if entityID != "" && failed[entityID] {
			stats.Skipped++
			continue
		}

		stats.Processed++
		opCtx, cancel := context.WithTimeout(ctx, m.opts.OpTimeout)
		err := m.remote.Apply(opCtx, op)
		cancel()

		if err != nil {
			stats.Failed++
			if entityID != "" {
				failed[entityID] = true
			}
			m.log.Warn(ctx, "sync operation failed",
				"op", op.ID, "type", op.Type, "action", op.Action, "retries", op.RetryCount, "error", err)
			if uerr := m.queue.UpdateRetry(ctx, op.ID, err); uerr != nil {
				m.log.Error(ctx, "failed to record retry", "op", op.ID, "error", uerr)
			}
			continue
		}

		stats.Succeeded++
		if derr := m.queue.Dequeue(ctx, op.ID); derr != nil {
			m.log.Error(ctx, "failed to dequeue", "op", op.ID, "error", derr)
		}
	}

	dropped, err := m.queue.PruneExpired(ctx)
	if err != nil {
		m.log.Error(ctx, "prune failed", "error", err)
	}
	stats.Dropped = len(dropped)

	m.finishPass(ctx, stats, dropped)
	return stats, nil
}

func (m *Manager) finishPass(ctx context.Context, stats PassStats, dropped []models.SyncOperation) {
	if stats.Processed > 0 || stats.Dropped > 0 {
		rec := models.SyncHistoryRecord{
			Timestamp: time.Now().UnixMilli(),
			Processed: stats.Processed,
			Succeeded: stats.Succeeded,
			Failed:    stats.Failed,
			Skipped:   stats.Skipped,
		}
		if m.opts.DropPolicy == DropNotify {
			rec.Dropped = dropped
		}
		if err := m.store.AppendSyncHistory(ctx, rec); err != nil {
			m.log.Error(ctx, "failed to record sync history", "error", err)
		}
	}

	if len(dropped) > 0 {
		if m.opts.DropPolicy == DropNotify {
			m.log.Warn(ctx, "operations dropped after retry limit", "count", len(dropped))
			m.mu.Lock()
			callbacks := append([]func([]models.SyncOperation){}, m.deadLetter...)
			m.mu.Unlock()
			for _, fn := range callbacks {
				fn(dropped)
			}
		} else {
			m.log.Debug(ctx, "operations dropped silently", "count", len(dropped))
		}
	}

	m.mu.Lock()
	listeners := append([]func(PassStats){}, m.listeners...)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(stats)
	}
}

// WatchOnline polls the online reporter at the given interval and kicks a
// drain whenever the network transitions from offline to online. Blocks
// until ctx is done; run it in a goroutine.
func (m *Manager) WatchOnline(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := m.online()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := m.online()
			if cur && !last {
				m.log.Info(ctx, "network back online, draining queue")
				if _, err := m.ProcessQueue(ctx); err != nil {
					m.log.Error(ctx, "drain after reconnect failed", "error", err)
				}
			}
			last = cur
		}
	}
}
