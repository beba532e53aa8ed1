package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/antonpav/pad/internal/models"
	"github.com/antonpav/pad/internal/store"
)

// Diaries keeps the diary collection in memory, mirrored to the store on
// every mutation.
type Diaries struct {
	deps Deps

	mu        sync.RWMutex
	items     []models.Diary
	listeners []func([]models.Diary)
}

// NewDiaries loads the stored collection into memory.
func NewDiaries(ctx context.Context, deps Deps) *Diaries {
	return &Diaries{deps: deps, items: deps.Store.GetDiaries(ctx)}
}

// OnChange registers a listener that receives the full collection after
// every change. Not safe to call concurrently with mutations.
func (s *Diaries) OnChange(fn func([]models.Diary)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Diaries) changed(items []models.Diary) {
	for _, fn := range s.listeners {
		fn(items)
	}
}

// List returns a copy of the collection.
func (s *Diaries) List() []models.Diary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Diary, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the diary with the given id.
func (s *Diaries) Get(id string) (models.Diary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.items {
		if d.ID == id {
			return d, true
		}
	}
	return models.Diary{}, false
}

// Search returns diaries whose title, content or tags contain the query,
// case-insensitively. An empty query matches everything.
func (s *Diaries) Search(query string) []models.Diary {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.List()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Diary, 0)
	for _, d := range s.items {
		if strings.Contains(strings.ToLower(d.Title), q) ||
			strings.Contains(strings.ToLower(d.Content), q) {
			out = append(out, d)
			continue
		}
		for _, tag := range d.Tags {
			if strings.Contains(tag, q) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// ByFolder returns diaries filed in the given folder; empty id selects
// unfiled entries.
func (s *Diaries) ByFolder(folderID string) []models.Diary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Diary, 0)
	for _, d := range s.items {
		if d.FolderID == folderID {
			out = append(out, d)
		}
	}
	return out
}

// Create adds a new, empty diary with the given title.
func (s *Diaries) Create(ctx context.Context, title string) (models.Diary, error) {
	now := s.deps.now()
	d := models.Diary{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   "",
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deps.Store.AddDiary(ctx, d); err != nil {
		return models.Diary{}, err
	}

	s.mu.Lock()
	s.items = append(s.items, d)
	items := append([]models.Diary(nil), s.items...)
	s.mu.Unlock()
	s.changed(items)

	s.deps.sync(ctx, models.EntityDiary, models.ActionCreate, d)
	return d, nil
}

// Update applies a partial patch. The store refreshes UpdatedAt and
// normalizes tags; the in-memory record mirrors the stored result.
func (s *Diaries) Update(ctx context.Context, id string, patch store.DiaryPatch) (models.Diary, error) {
	updated, err := s.deps.Store.UpdateDiary(ctx, id, patch)
	if err != nil {
		return models.Diary{}, err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = updated
			break
		}
	}
	items := append([]models.Diary(nil), s.items...)
	s.mu.Unlock()
	s.changed(items)

	s.deps.sync(ctx, models.EntityDiary, models.ActionUpdate, updated)
	return updated, nil
}

// SetFolder files the diary in a folder; empty id unfiles it.
func (s *Diaries) SetFolder(ctx context.Context, id, folderID string) (models.Diary, error) {
	return s.Update(ctx, id, store.DiaryPatch{FolderID: &folderID})
}

// SetTags replaces the diary's tag list. Tags are normalized by the store.
func (s *Diaries) SetTags(ctx context.Context, id string, tags []string) (models.Diary, error) {
	return s.Update(ctx, id, store.DiaryPatch{Tags: tags})
}

// Delete removes the diary locally and queues the remote delete.
func (s *Diaries) Delete(ctx context.Context, id string) error {
	if err := s.deps.Store.DeleteDiary(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	items := append([]models.Diary(nil), s.items...)
	s.mu.Unlock()
	s.changed(items)

	s.deps.sync(ctx, models.EntityDiary, models.ActionDelete, deleteRef{ID: id})
	return nil
}

// Import merges a JSON array of diary records into the collection.
// Incoming fields win per record; fields the incoming record omits keep
// their stored value. With replace, the stored collection is discarded
// first. Imports are a local reconciliation and queue no sync operations.
func (s *Diaries) Import(ctx context.Context, raw []byte, replace bool) error {
	merged, err := s.deps.Store.ImportDiaries(ctx, raw, replace)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items = merged
	items := append([]models.Diary(nil), s.items...)
	s.mu.Unlock()
	s.changed(items)
	return nil
}

// Reload re-reads the collection from the store. Used after operations
// that change diaries behind the service's back, like a folder cascade.
func (s *Diaries) Reload(ctx context.Context) {
	fresh := s.deps.Store.GetDiaries(ctx)
	s.mu.Lock()
	s.items = fresh
	items := append([]models.Diary(nil), s.items...)
	s.mu.Unlock()
	s.changed(items)
}
