// Package store implements the durable local persistence layer: a
// namespaced key-value table in SQLite holding whole JSON collections
// (diaries, folders, tasks, analyses, backups, the sync queue and sync
// history). The local store is the single source of truth; the remote
// replica is maintained elsewhere, best-effort.
//
// Reads never fail on bad data: an absent or corrupt collection is logged
// and treated as empty, so a confusing storage state can never take the
// application down. Writes do return errors and callers are expected to
// surface them.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/antonpav/pad/internal/dbx"
	"github.com/antonpav/pad/internal/logging"
)

// Storage keys. Each is suffixed with "-<userID>" when a user is signed
// in, so multiple identities sharing one database never collide.
const (
	keyDiaries     = "diaries"
	keyFolders     = "folders"
	keyTasks       = "tasks"
	keyAnalyses    = "analyses"
	keyAISettings  = "ai_settings"
	keySyncHistory = "sync_history"
	keySyncQueue   = "sync_queue"
	keyBackups     = "diaries_backups"
)

// Store is a namespaced view over the shared kv table. Construct one per
// session; the namespace is fixed at construction so no global user state
// exists anywhere in the persistence path.
type Store struct {
	db  *sql.DB
	ns  string
	log logging.Logger

	// now is a test seam for timestamping.
	now func() int64
}

// New returns a Store bound to the given namespace. An empty namespace is
// the shared, unauthenticated space.
func New(db *sql.DB, namespace string, log logging.Logger) *Store {
	return &Store{
		db:  db,
		ns:  namespace,
		log: log.With("component", "store", "ns", namespace),
		now: func() int64 { return time.Now().UnixMilli() },
	}
}

// Namespace returns the namespace this store was constructed with.
func (s *Store) Namespace() string { return s.ns }

// DB exposes the underlying handle for transaction composition.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) key(name string) string {
	if s.ns == "" {
		return name
	}
	return name + "-" + s.ns
}

func (s *Store) getRaw(ctx context.Context, q dbx.DBTX, name string) ([]byte, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key(name)).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return []byte(value), true, nil
}

func (s *Store) putRaw(ctx context.Context, q dbx.DBTX, name string, value []byte, now int64) error {
	query := `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := q.ExecContext(ctx, query, s.key(name), string(value), now); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// getCollection loads a JSON array collection. Absent or corrupt data
// degrades to an empty slice with a warning, never an error.
func getCollection[T any](ctx context.Context, s *Store, q dbx.DBTX, name string) []T {
	raw, ok, err := s.getRaw(ctx, q, name)
	if err != nil {
		s.log.Warn(ctx, "collection read failed, treating as empty", "key", name, "error", err)
		return []T{}
	}
	if !ok {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		s.log.Warn(ctx, "collection corrupt, treating as empty", "key", name, "error", err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// saveCollection serializes and writes a whole collection in one upsert.
func saveCollection[T any](ctx context.Context, s *Store, q dbx.DBTX, name string, items []T, now int64) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", name, err)
	}
	return s.putRaw(ctx, q, name, raw, now)
}

// getObject loads a single JSON object (settings-like keys). Missing or
// corrupt data leaves the zero value and reports ok=false.
func getObject[T any](ctx context.Context, s *Store, name string) (T, bool) {
	var obj T
	raw, ok, err := s.getRaw(ctx, s.db, name)
	if err != nil || !ok {
		if err != nil {
			s.log.Warn(ctx, "object read failed", "key", name, "error", err)
		}
		return obj, false
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		s.log.Warn(ctx, "object corrupt, ignoring", "key", name, "error", err)
		return obj, false
	}
	return obj, true
}

func saveObject[T any](ctx context.Context, s *Store, name string, obj T, now int64) error {
	raw, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", name, err)
	}
	return s.putRaw(ctx, s.db, name, raw, now)
}
