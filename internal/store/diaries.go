package store

import (
	"context"

	"github.com/antonpav/pad/internal/common"
	"github.com/antonpav/pad/internal/dbx"
	"github.com/antonpav/pad/internal/models"
)

// DiaryPatch carries partial diary fields for Update. Nil pointers leave
// the field untouched; Tags replaces the whole set when non-nil.
type DiaryPatch struct {
	Title    *string
	Content  *string
	FolderID *string
	Tags     []string
}

// GetDiaries returns the full diary collection for this namespace.
func (s *Store) GetDiaries(ctx context.Context) []models.Diary {
	return getCollection[models.Diary](ctx, s, s.db, keyDiaries)
}

// SaveDiaries replaces the diary collection in a single write and takes a
// conditional backup snapshot (see maybeSnapshot).
func (s *Store) SaveDiaries(ctx context.Context, diaries []models.Diary) error {
	now := s.now()
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := saveCollection(ctx, s, tx, keyDiaries, diaries, now); err != nil {
			return err
		}
		return s.maybeSnapshot(ctx, tx, now)
	})
}

// AddDiary appends a diary to the stored collection.
func (s *Store) AddDiary(ctx context.Context, d models.Diary) error {
	diaries := s.GetDiaries(ctx)
	return s.SaveDiaries(ctx, append(diaries, d))
}

// UpdateDiary merges patch into the stored diary and refreshes UpdatedAt.
// Refreshing UpdatedAt is a defined side effect of this call; callers must
// not stamp it themselves.
func (s *Store) UpdateDiary(ctx context.Context, id string, patch DiaryPatch) (models.Diary, error) {
	diaries := s.GetDiaries(ctx)
	for i := range diaries {
		if diaries[i].ID != id {
			continue
		}
		if patch.Title != nil {
			diaries[i].Title = *patch.Title
		}
		if patch.Content != nil {
			diaries[i].Content = *patch.Content
		}
		if patch.FolderID != nil {
			diaries[i].FolderID = *patch.FolderID
		}
		if patch.Tags != nil {
			diaries[i].Tags = models.NormalizeTags(patch.Tags)
		}
		diaries[i].UpdatedAt = s.now()

		if err := s.SaveDiaries(ctx, diaries); err != nil {
			return models.Diary{}, err
		}
		return diaries[i], nil
	}
	return models.Diary{}, common.ErrNotFound
}

// DeleteDiary removes a diary by id. Deleting an unknown id is not an
// error.
func (s *Store) DeleteDiary(ctx context.Context, id string) error {
	diaries := s.GetDiaries(ctx)
	kept := diaries[:0]
	for _, d := range diaries {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	return s.SaveDiaries(ctx, kept)
}

func (s *Store) diariesIn(ctx context.Context, tx dbx.DBTX) []models.Diary {
	return getCollection[models.Diary](ctx, s, tx, keyDiaries)
}
