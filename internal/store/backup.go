package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/antonpav/pad/internal/common"
	"github.com/antonpav/pad/internal/dbx"
	"github.com/antonpav/pad/internal/models"
)

type snapshotPair struct {
	Diaries []models.Diary  `json:"diaries"`
	Folders []models.Folder `json:"folders"`
}

// GetBackups returns the stored snapshot ring, oldest first.
func (s *Store) GetBackups(ctx context.Context) []models.Backup {
	return getCollection[models.Backup](ctx, s, s.db, keyBackups)
}

// maybeSnapshot appends a backup of the current diaries+folders state if
// its serialized form differs from the last stored backup, then trims the
// ring to MaxBackups, dropping the oldest entries. Saving identical
// content twice therefore produces a single backup.
func (s *Store) maybeSnapshot(ctx context.Context, tx dbx.DBTX, now int64) error {
	cur := snapshotPair{
		Diaries: s.diariesIn(ctx, tx),
		Folders: getCollection[models.Folder](ctx, s, tx, keyFolders),
	}
	curRaw, err := json.Marshal(cur)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	backups := getCollection[models.Backup](ctx, s, tx, keyBackups)
	if len(backups) > 0 {
		last := backups[len(backups)-1]
		lastRaw, err := json.Marshal(snapshotPair{Diaries: last.Diaries, Folders: last.Folders})
		if err == nil && bytes.Equal(curRaw, lastRaw) {
			return nil
		}
	}

	backups = append(backups, models.Backup{
		Timestamp: now,
		Diaries:   cur.Diaries,
		Folders:   cur.Folders,
	})
	if len(backups) > common.MaxBackups {
		backups = backups[len(backups)-common.MaxBackups:]
	}
	return saveCollection(ctx, s, tx, keyBackups, backups, now)
}
