package store

import (
	"context"

	"github.com/antonpav/pad/internal/common"
	"github.com/antonpav/pad/internal/dbx"
	"github.com/antonpav/pad/internal/models"
)

// FolderPatch carries partial folder fields for Update.
type FolderPatch struct {
	Name     *string
	ParentID *string
	Color    *string
}

// GetFolders returns the full folder collection for this namespace.
func (s *Store) GetFolders(ctx context.Context) []models.Folder {
	return getCollection[models.Folder](ctx, s, s.db, keyFolders)
}

// SaveFolders replaces the folder collection in a single write and takes
// a conditional backup snapshot.
func (s *Store) SaveFolders(ctx context.Context, folders []models.Folder) error {
	now := s.now()
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := saveCollection(ctx, s, tx, keyFolders, folders, now); err != nil {
			return err
		}
		return s.maybeSnapshot(ctx, tx, now)
	})
}

// AddFolder appends a folder to the stored collection.
func (s *Store) AddFolder(ctx context.Context, f models.Folder) error {
	folders := s.GetFolders(ctx)
	return s.SaveFolders(ctx, append(folders, f))
}

// UpdateFolder merges patch into the stored folder.
func (s *Store) UpdateFolder(ctx context.Context, id string, patch FolderPatch) (models.Folder, error) {
	folders := s.GetFolders(ctx)
	for i := range folders {
		if folders[i].ID != id {
			continue
		}
		if patch.Name != nil {
			folders[i].Name = *patch.Name
		}
		if patch.ParentID != nil {
			folders[i].ParentID = *patch.ParentID
		}
		if patch.Color != nil {
			folders[i].Color = *patch.Color
		}
		if err := s.SaveFolders(ctx, folders); err != nil {
			return models.Folder{}, err
		}
		return folders[i], nil
	}
	return models.Folder{}, common.ErrNotFound
}

// DeleteFolder removes a folder and its children, and clears the folder
// reference on every diary that pointed at a removed folder. Diaries are
// never deleted by the cascade.
func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	now := s.now()
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		folders := getCollection[models.Folder](ctx, s, tx, keyFolders)
		removed := map[string]struct{}{id: {}}
		kept := folders[:0]
		for _, f := range folders {
			if f.ID == id || f.ParentID == id {
				removed[f.ID] = struct{}{}
				continue
			}
			kept = append(kept, f)
		}
		if err := saveCollection(ctx, s, tx, keyFolders, kept, now); err != nil {
			return err
		}

		diaries := s.diariesIn(ctx, tx)
		changed := false
		for i := range diaries {
			if _, gone := removed[diaries[i].FolderID]; gone {
				diaries[i].FolderID = ""
				changed = true
			}
		}
		if changed {
			if err := saveCollection(ctx, s, tx, keyDiaries, diaries, now); err != nil {
				return err
			}
		}
		return s.maybeSnapshot(ctx, tx, now)
	})
}
