package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonpav/pad/internal/models"
)

const day = int64(24 * 60 * 60 * 1000)

// seedTasks inserts three active tasks (orders 0,1,2), one completed task
// and one future time-range task directly into the store.
func seedTasks(t *testing.T, e env) (active []models.Task, completed, future models.Task) {
	t.Helper()
	ctx := context.Background()
	now := int64(1000)

	active = []models.Task{
		{ID: "a0", Title: "first", TaskType: models.TaskLongTerm, CreatedAt: 1, Order: 0},
		{ID: "a1", Title: "second", TaskType: models.TaskLongTerm, CreatedAt: 2, Order: 1},
		{ID: "a2", Title: "third", TaskType: models.TaskLongTerm, CreatedAt: 3, Order: 2},
	}
	completed = models.Task{
		ID: "c0", Title: "done", TaskType: models.TaskLongTerm, CreatedAt: 4,
		Completed: true, CompletedAt: 500, Order: 7,
	}
	future = models.Task{
		ID: "f0", Title: "later", TaskType: models.TaskTimeRange, CreatedAt: 5,
		StartDate: now + day, EndDate: now + 2*day, Order: 9,
	}

	all := append(append([]models.Task{}, active...), completed, future)
	require.NoError(t, e.deps.Store.SaveTasks(ctx, all))
	return active, completed, future
}

func TestMoveDownReranksActiveOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seedTasks(t, e)
	svc := NewTasks(ctx, e.deps)

	require.NoError(t, svc.MoveDown(ctx, "a0"))

	byID := map[string]models.Task{}
	for _, task := range svc.List() {
		byID[task.ID] = task
	}
	assert.Equal(t, 1, byID["a0"].Order)
	assert.Equal(t, 0, byID["a1"].Order)
	assert.Equal(t, 2, byID["a2"].Order)
	assert.Equal(t, 7, byID["c0"].Order)
	assert.Equal(t, 9, byID["f0"].Order)

	// Persisted, and only the swapped pair queued updates.
	stored := map[string]models.Task{}
	for _, task := range e.deps.Store.GetTasks(ctx) {
		stored[task.ID] = task
	}
	assert.Equal(t, 1, stored["a0"].Order)
	assert.Equal(t, 0, stored["a1"].Order)

	var updatedIDs []string
	for _, op := range e.deps.Queue.ByType(ctx, models.EntityTask) {
		require.Equal(t, models.ActionUpdate, op.Action)
		updatedIDs = append(updatedIDs, op.EntityID())
	}
	assert.ElementsMatch(t, []string{"a0", "a1"}, updatedIDs)
}

func TestMoveUpThenBoundaryNoop(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seedTasks(t, e)
	svc := NewTasks(ctx, e.deps)

	require.NoError(t, svc.MoveUp(ctx, "a1"))
	byID := map[string]models.Task{}
	for _, task := range svc.List() {
		byID[task.ID] = task
	}
	assert.Equal(t, 0, byID["a1"].Order)
	assert.Equal(t, 1, byID["a0"].Order)

	// Already at the top: nothing changes, nothing is queued.
	queued := e.deps.Queue.Count(ctx)
	require.NoError(t, svc.MoveUp(ctx, "a1"))
	assert.Equal(t, queued, e.deps.Queue.Count(ctx))

	// Completed and future tasks are not part of the partition.
	assert.Error(t, svc.MoveUp(ctx, "c0"))
	assert.Error(t, svc.MoveDown(ctx, "f0"))
}

func TestCreateRanksLastAmongActive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seedTasks(t, e)
	svc := NewTasks(ctx, e.deps)

	created, err := svc.Create(ctx, models.Task{Title: "fourth"})
	require.NoError(t, err)

	// max(active)=2, not the completed task's 7 or the future task's 9.
	assert.Equal(t, 3, created.Order)
	assert.Equal(t, models.TaskLongTerm, created.TaskType)
}

func TestCreateTimeRangeNeedsBounds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := NewTasks(ctx, e.deps)

	_, err := svc.Create(ctx, models.Task{Title: "trip", TaskType: models.TaskTimeRange, StartDate: 100})
	assert.Error(t, err)

	_, err = svc.Create(ctx, models.Task{
		Title: "trip", TaskType: models.TaskTimeRange, StartDate: 100, EndDate: 200,
	})
	assert.NoError(t, err)
}

func TestCompleteStampsAndKeepsOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seedTasks(t, e)
	svc := NewTasks(ctx, e.deps)

	done, err := svc.Complete(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.NotZero(t, done.CompletedAt)
	assert.Equal(t, 1, done.Order)

	// Completing again is a no-op with the original stamp.
	again, err := svc.Complete(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, done.CompletedAt, again.CompletedAt)
}

func TestTaskPartitionViews(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, completedTask, futureTask := seedTasks(t, e)
	svc := NewTasks(ctx, e.deps)
	now := int64(1000)

	active := svc.Active(now)
	require.Len(t, active, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{active[0].Order, active[1].Order, active[2].Order})

	future := svc.Future(now)
	require.Len(t, future, 1)
	assert.Equal(t, futureTask.ID, future[0].ID)

	// A started time-range task counts as active.
	started := svc.Active(futureTask.StartDate)
	assert.Len(t, started, 4)

	done, err := svc.Complete(ctx, "a0")
	require.NoError(t, err)
	completed := svc.Completed()
	require.Len(t, completed, 2)
	assert.Equal(t, done.ID, completed[0].ID, "most recent completion first")
	assert.Equal(t, completedTask.ID, completed[1].ID)
}

func TestTaskUpdatePreservesOrderAndCreatedAt(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seedTasks(t, e)
	svc := NewTasks(ctx, e.deps)

	task, _ := svc.Get("a1")
	task.Title = "renamed"
	task.Order = 99
	task.CreatedAt = 99

	updated, err := svc.Update(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, 1, updated.Order)
	assert.Equal(t, int64(2), updated.CreatedAt)
}

func TestTaskDeleteQueuesRemoteDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seedTasks(t, e)
	svc := NewTasks(ctx, e.deps)

	require.NoError(t, svc.Delete(ctx, "a2"))
	_, ok := svc.Get("a2")
	assert.False(t, ok)

	ops := e.deps.Queue.ByType(ctx, models.EntityTask)
	require.Len(t, ops, 1)
	assert.Equal(t, models.ActionDelete, ops[0].Action)
	assert.Equal(t, "a2", ops[0].EntityID())
}
