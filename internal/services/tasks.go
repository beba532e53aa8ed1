package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/antonpav/pad/internal/common"
	"github.com/antonpav/pad/internal/models"
)

// Tasks keeps the task collection in memory and maintains the dense order
// ranking over the active partition. Completed and not-yet-started tasks
// keep whatever order they had when they left the partition.
type Tasks struct {
	deps Deps

	mu        sync.RWMutex
	items     []models.Task
	listeners []func([]models.Task)
}

// NewTasks loads the stored collection into memory.
func NewTasks(ctx context.Context, deps Deps) *Tasks {
	return &Tasks{deps: deps, items: deps.Store.GetTasks(ctx)}
}

// OnChange registers a listener that receives the full collection after
// every change. Not safe to call concurrently with mutations.
func (s *Tasks) OnChange(fn func([]models.Task)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Tasks) changed(items []models.Task) {
	for _, fn := range s.listeners {
		fn(items)
	}
}

// List returns a copy of the collection.
func (s *Tasks) List() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the task with the given id.
func (s *Tasks) Get(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.items {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// Active returns the active partition ordered by rank: not completed and
// either unscheduled or already started.
func (s *Tasks) Active(now int64) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeSorted(s.items, now)
}

// Future returns scheduled tasks that have not started yet, by start date.
func (s *Tasks) Future(now int64) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, 0)
	for _, t := range s.items {
		if t.IsFuture(now) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out
}

// Completed returns completed tasks, most recently completed first.
func (s *Tasks) Completed() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, 0)
	for _, t := range s.items {
		if t.Completed {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt > out[j].CompletedAt })
	return out
}

// Create adds a task. ID, CreatedAt and Order are assigned here; the new
// task ranks last in the active partition. Time-range tasks must carry
// both bounds.
func (s *Tasks) Create(ctx context.Context, t models.Task) (models.Task, error) {
	if t.TaskType == "" {
		t.TaskType = models.TaskLongTerm
	}
	if !t.IsSchedulable() {
		return models.Task{}, fmt.Errorf("time-range task needs both start and end dates")
	}

	now := s.deps.now()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.Completed = false
	t.CompletedAt = 0
	t.Order = s.nextOrder(now)

	if err := s.deps.Store.AddTask(ctx, t); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	s.items = append(s.items, t)
	items := append([]models.Task(nil), s.items...)
	s.mu.Unlock()
	s.changed(items)

	s.deps.sync(ctx, models.EntityTask, models.ActionCreate, t)
	return t, nil
}

// Update replaces the task record wholesale, keeping ID, CreatedAt and
// Order from the stored version.
func (s *Tasks) Update(ctx context.Context, t models.Task) (models.Task, error) {
	existing, ok := s.Get(t.ID)
	if !ok {
		return models.Task{}, fmt.Errorf("task %s: %w", t.ID, common.ErrNotFound)
	}
	t.CreatedAt = existing.CreatedAt
	t.Order = existing.Order
	if !t.IsSchedulable() {
		return models.Task{}, fmt.Errorf("time-range task needs both start and end dates")
	}

	if err := s.deps.Store.UpdateTask(ctx, t); err != nil {
		return models.Task{}, err
	}
	s.replaceInMemory(t)
	s.deps.sync(ctx, models.EntityTask, models.ActionUpdate, t)
	return t, nil
}

// Complete marks the task done and stamps CompletedAt. The order value is
// left as is; the task simply stops being part of the active partition.
func (s *Tasks) Complete(ctx context.Context, id string) (models.Task, error) {
	t, ok := s.Get(id)
	if !ok {
		return models.Task{}, fmt.Errorf("task %s: %w", id, common.ErrNotFound)
	}
	if t.Completed {
		return t, nil
	}
	t.Completed = true
	t.CompletedAt = s.deps.now()

	if err := s.deps.Store.UpdateTask(ctx, t); err != nil {
		return models.Task{}, err
	}
	s.replaceInMemory(t)
	s.deps.sync(ctx, models.EntityTask, models.ActionUpdate, t)
	return t, nil
}

// Delete removes the task locally and queues the remote delete.
func (s *Tasks) Delete(ctx context.Context, id string) error {
	if err := s.deps.Store.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	items := append([]models.Task(nil), s.items...)
	s.mu.Unlock()
	s.changed(items)

	s.deps.sync(ctx, models.EntityTask, models.ActionDelete, deleteRef{ID: id})
	return nil
}

// MoveUp swaps the task with its predecessor in the active partition.
func (s *Tasks) MoveUp(ctx context.Context, id string) error {
	return s.move(ctx, id, -1)
}

// MoveDown swaps the task with its successor in the active partition.
func (s *Tasks) MoveDown(ctx context.Context, id string) error {
	return s.move(ctx, id, +1)
}

// move re-ranks the active partition: the task swaps places with its
// neighbor and every active task is reassigned order = position. Tasks
// outside the partition are untouched, so the pass costs O(active) and
// never perturbs completed or future orders. Moving past either end of
// the partition is a no-op.
func (s *Tasks) move(ctx context.Context, id string, delta int) error {
	now := s.deps.now()

	s.mu.Lock()
	active := activeSorted(s.items, now)

	pos := -1
	for i, t := range active {
		if t.ID == id {
			pos = i
			break
		}
	}
	if pos == -1 {
		s.mu.Unlock()
		return fmt.Errorf("active task %s: %w", id, common.ErrNotFound)
	}
	target := pos + delta
	if target < 0 || target >= len(active) {
		s.mu.Unlock()
		return nil
	}

	active[pos], active[target] = active[target], active[pos]

	ranked := make(map[string]int, len(active))
	for i, t := range active {
		ranked[t.ID] = i
	}

	var changedTasks []models.Task
	for i := range s.items {
		r, ok := ranked[s.items[i].ID]
		if !ok || s.items[i].Order == r {
			continue
		}
		s.items[i].Order = r
		changedTasks = append(changedTasks, s.items[i])
	}

	items := append([]models.Task(nil), s.items...)
	s.mu.Unlock()

	if err := s.deps.Store.SaveTasks(ctx, items); err != nil {
		return err
	}
	s.changed(items)

	for _, t := range changedTasks {
		s.deps.sync(ctx, models.EntityTask, models.ActionUpdate, t)
	}
	return nil
}

// Reload re-reads the collection from the store.
func (s *Tasks) Reload(ctx context.Context) {
	fresh := s.deps.Store.GetTasks(ctx)
	s.mu.Lock()
	s.items = fresh
	items := append([]models.Task(nil), s.items...)
	s.mu.Unlock()
	s.changed(items)
}

func (s *Tasks) replaceInMemory(t models.Task) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == t.ID {
			s.items[i] = t
			break
		}
	}
	items := append([]models.Task(nil), s.items...)
	s.mu.Unlock()
	s.changed(items)
}

func (s *Tasks) nextOrder(now int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := -1
	for _, t := range s.items {
		if t.IsActive(now) && t.Order > max {
			max = t.Order
		}
	}
	return max + 1
}

func activeSorted(items []models.Task, now int64) []models.Task {
	out := make([]models.Task, 0)
	for _, t := range items {
		if t.IsActive(now) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
