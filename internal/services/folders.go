package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/antonpav/pad/internal/common"
	"github.com/antonpav/pad/internal/models"
	"github.com/antonpav/pad/internal/store"
)

// Folders keeps the folder collection in memory. Deleting a folder
// cascades through the store (diaries unfiled, child folders removed) and
// refreshes the diary service.
type Folders struct {
	deps    Deps
	diaries *Diaries

	mu        sync.RWMutex
	items     []models.Folder
	listeners []func([]models.Folder)
}

// NewFolders loads the stored collection. The diaries service is reloaded
// after cascading deletes; it may be nil in tests that don't care.
func NewFolders(ctx context.Context, deps Deps, diaries *Diaries) *Folders {
	return &Folders{deps: deps, diaries: diaries, items: deps.Store.GetFolders(ctx)}
}

// OnChange registers a listener that receives the full collection after
// every change. Not safe to call concurrently with mutations.
func (s *Folders) OnChange(fn func([]models.Folder)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Folders) changed(items []models.Folder) {
	for _, fn := range s.listeners {
		fn(items)
	}
}

// List returns a copy of the collection.
func (s *Folders) List() []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Folder, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the folder with the given id.
func (s *Folders) Get(id string) (models.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.items {
		if f.ID == id {
			return f, true
		}
	}
	return models.Folder{}, false
}

// Create adds a folder. Nesting is limited to one level: the parent, if
// given, must exist and must itself be a root folder.
func (s *Folders) Create(ctx context.Context, name, parentID, color string) (models.Folder, error) {
	if err := s.checkParent(parentID); err != nil {
		return models.Folder{}, err
	}

	f := models.Folder{
		ID:        uuid.NewString(),
		Name:      name,
		ParentID:  parentID,
		Color:     color,
		CreatedAt: s.deps.now(),
	}
	if err := s.deps.Store.AddFolder(ctx, f); err != nil {
		return models.Folder{}, err
	}

	s.mu.Lock()
	s.items = append(s.items, f)
	items := append([]models.Folder(nil), s.items...)
	s.mu.Unlock()
	s.changed(items)

	s.deps.sync(ctx, models.EntityFolder, models.ActionCreate, f)
	return f, nil
}

// Update applies a partial patch.
func (s *Folders) Update(ctx context.Context, id string, patch store.FolderPatch) (models.Folder, error) {
	if patch.ParentID != nil {
		if err := s.checkParent(*patch.ParentID); err != nil {
			return models.Folder{}, err
		}
	}

	updated, err := s.deps.Store.UpdateFolder(ctx, id, patch)
	if err != nil {
		return models.Folder{}, err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = updated
			break
		}
	}
	items := append([]models.Folder(nil), s.items...)
	s.mu.Unlock()
	s.changed(items)

	s.deps.sync(ctx, models.EntityFolder, models.ActionUpdate, updated)
	return updated, nil
}

// Delete removes the folder and its children. Diaries filed under any of
// them are unfiled, not deleted; the diary service reloads to pick that
// up. Each removed folder gets its own queued remote delete.
func (s *Folders) Delete(ctx context.Context, id string) error {
	s.mu.RLock()
	removed := []string{id}
	for _, f := range s.items {
		if f.ParentID == id {
			removed = append(removed, f.ID)
		}
	}
	s.mu.RUnlock()

	if err := s.deps.Store.DeleteFolder(ctx, id); err != nil {
		return err
	}

	fresh := s.deps.Store.GetFolders(ctx)
	s.mu.Lock()
	s.items = fresh
	items := append([]models.Folder(nil), s.items...)
	s.mu.Unlock()
	s.changed(items)

	if s.diaries != nil {
		s.diaries.Reload(ctx)
	}

	for _, fid := range removed {
		s.deps.sync(ctx, models.EntityFolder, models.ActionDelete, deleteRef{ID: fid})
	}
	return nil
}

// Import merges a JSON array of folder records, mirroring the diary
// import semantics.
func (s *Folders) Import(ctx context.Context, raw []byte, replace bool) error {
	merged, err := s.deps.Store.ImportFolders(ctx, raw, replace)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items = merged
	items := append([]models.Folder(nil), s.items...)
	s.mu.Unlock()
	s.changed(items)
	return nil
}

// Reload re-reads the collection from the store.
func (s *Folders) Reload(ctx context.Context) {
	fresh := s.deps.Store.GetFolders(ctx)
	s.mu.Lock()
	s.items = fresh
	items := append([]models.Folder(nil), s.items...)
	s.mu.Unlock()
	s.changed(items)
}

func (s *Folders) checkParent(parentID string) error {
	if parentID == "" {
		return nil
	}
	parent, ok := s.Get(parentID)
	if !ok {
		return fmt.Errorf("parent folder %s: %w", parentID, common.ErrNotFound)
	}
	if parent.ParentID != "" {
		return fmt.Errorf("folder nesting is limited to one level")
	}
	return nil
}
