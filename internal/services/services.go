// Package services hosts the entity services: reactive in-memory
// collections that mirror the local store and feed every mutation through
// the sync queue. Each service follows the same write path: mutate memory,
// write through to the store, enqueue a sync operation, then ask the sync
// manager for a drain. Failures past the store never undo a local change;
// they surface as notifications instead.
package services

import (
	"context"
	"time"

	"github.com/antonpav/pad/internal/logging"
	"github.com/antonpav/pad/internal/models"
	"github.com/antonpav/pad/internal/session"
	"github.com/antonpav/pad/internal/store"
	"github.com/antonpav/pad/internal/syncqueue"
)

// Notifier surfaces background problems to the user, the moral equivalent
// of a toast. Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string) {}

// Deps carries the shared collaborators of every entity service.
type Deps struct {
	Store  *store.Store
	Queue  *syncqueue.Queue
	Sess   session.Session
	Log    logging.Logger
	Notify Notifier

	// Kick requests a sync-queue drain after a mutation. May be nil.
	Kick func()

	// Now is a test seam for timestamping; nil means wall clock.
	Now func() int64
}

func (d *Deps) now() int64 {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UnixMilli()
}

func (d *Deps) notify(ctx context.Context, msg string) {
	if d.Notify != nil {
		d.Notify.Notify(ctx, msg)
	}
}

// sync queues one operation for remote delivery and kicks the drainer.
// Unauthenticated sessions skip syncing entirely. A queueing failure is
// reported but never fails the mutation: the local write already happened
// and local state stays authoritative.
func (d *Deps) sync(ctx context.Context, typ models.EntityType, action models.Action, data any) {
	if !d.Sess.Active() {
		return
	}
	if _, err := d.Queue.Enqueue(ctx, typ, action, data, d.Sess.UserID); err != nil {
		d.Log.Error(ctx, "failed to queue sync operation",
			"type", typ, "action", action, "error", err)
		d.notify(ctx, "Change saved locally but could not be queued for sync")
		return
	}
	if d.Kick != nil {
		d.Kick()
	}
}

// deleteRef is the minimal snapshot carried by delete operations.
type deleteRef struct {
	ID string `json:"id"`
}
