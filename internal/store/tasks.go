package store

import (
	"context"

	"github.com/antonpav/pad/internal/common"
	"github.com/antonpav/pad/internal/models"
)

// GetTasks returns the full task collection for this namespace.
func (s *Store) GetTasks(ctx context.Context) []models.Task {
	return getCollection[models.Task](ctx, s, s.db, keyTasks)
}

// SaveTasks replaces the task collection in a single write. Tasks are not
// part of the backup snapshot.
func (s *Store) SaveTasks(ctx context.Context, tasks []models.Task) error {
	return saveCollection(ctx, s, s.db, keyTasks, tasks, s.now())
}

// AddTask appends a task to the stored collection.
func (s *Store) AddTask(ctx context.Context, t models.Task) error {
	tasks := s.GetTasks(ctx)
	return s.SaveTasks(ctx, append(tasks, t))
}

// UpdateTask replaces the stored task with the same id.
func (s *Store) UpdateTask(ctx context.Context, t models.Task) error {
	tasks := s.GetTasks(ctx)
	for i := range tasks {
		if tasks[i].ID == t.ID {
			tasks[i] = t
			return s.SaveTasks(ctx, tasks)
		}
	}
	return common.ErrNotFound
}

// DeleteTask removes a task by id. Unknown ids are not an error.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tasks := s.GetTasks(ctx)
	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return s.SaveTasks(ctx, kept)
}
