package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonpav/pad/internal/common"
	"github.com/antonpav/pad/internal/models"
	"github.com/antonpav/pad/internal/store"
)

func TestFolderDeleteCascades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	diaries := NewDiaries(ctx, e.deps)
	folders := NewFolders(ctx, e.deps, diaries)

	parent, err := folders.Create(ctx, "Work", "", "")
	require.NoError(t, err)
	child, err := folders.Create(ctx, "Projects", parent.ID, "")
	require.NoError(t, err)

	d, err := diaries.Create(ctx, "Standup notes")
	require.NoError(t, err)
	_, err = diaries.SetFolder(ctx, d.ID, parent.ID)
	require.NoError(t, err)

	require.NoError(t, folders.Delete(ctx, parent.ID))

	assert.Empty(t, folders.List())

	// The diary survives, unfiled, in memory and in the store.
	got, ok := diaries.Get(d.ID)
	require.True(t, ok)
	assert.Empty(t, got.FolderID)
	stored := e.deps.Store.GetDiaries(ctx)
	require.Len(t, stored, 1)
	assert.Empty(t, stored[0].FolderID)

	// Parent and child each queued their own remote delete.
	var deletes []string
	for _, op := range e.deps.Queue.ByType(ctx, models.EntityFolder) {
		if op.Action == models.ActionDelete {
			deletes = append(deletes, op.EntityID())
		}
	}
	assert.ElementsMatch(t, []string{parent.ID, child.ID}, deletes)
}

func TestFolderNestingOneLevel(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	folders := NewFolders(ctx, e.deps, nil)

	parent, err := folders.Create(ctx, "Root", "", "#fff")
	require.NoError(t, err)
	child, err := folders.Create(ctx, "Child", parent.ID, "")
	require.NoError(t, err)

	_, err = folders.Create(ctx, "Grandchild", child.ID, "")
	assert.Error(t, err)

	_, err = folders.Create(ctx, "Orphan", "missing", "")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Reparenting under a child is rejected too.
	other, err := folders.Create(ctx, "Other", "", "")
	require.NoError(t, err)
	_, err = folders.Update(ctx, other.ID, store.FolderPatch{ParentID: &child.ID})
	assert.Error(t, err)
}

func TestFolderImportMergeKeepsUnsetFields(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.deps.Store.AddFolder(ctx, models.Folder{
		ID: "F1", Name: "Old", Color: "red", CreatedAt: 1,
	}))
	folders := NewFolders(ctx, e.deps, nil)

	require.NoError(t, folders.Import(ctx, []byte(`[{"id":"F1","name":"Work"}]`), false))

	got, ok := folders.Get("F1")
	require.True(t, ok)
	assert.Equal(t, "Work", got.Name)
	assert.Equal(t, "red", got.Color)
}

func TestFolderUpdateRename(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	folders := NewFolders(ctx, e.deps, nil)

	f, err := folders.Create(ctx, "Drafts", "", "")
	require.NoError(t, err)

	name := "Archive"
	updated, err := folders.Update(ctx, f.ID, store.FolderPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Archive", updated.Name)

	stored := e.deps.Store.GetFolders(ctx)
	require.Len(t, stored, 1)
	assert.Equal(t, "Archive", stored[0].Name)
}
