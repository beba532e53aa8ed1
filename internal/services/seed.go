package services

import (
	"context"
	"fmt"

	"github.com/antonpav/pad/internal/models"
	"github.com/antonpav/pad/internal/remote"
)

// RemoteSource lists the authenticated user's remote replica.
type RemoteSource interface {
	ListDiaries(ctx context.Context, userID string) ([]remote.DiaryRow, error)
	ListFolders(ctx context.Context, userID string) ([]remote.FolderRow, error)
	ListTasks(ctx context.Context, userID string) ([]remote.TaskRow, error)
}

// Seed replaces the local collections with the remote replica after
// sign-in, with two safeguards:
//
//   - a local record with a pending sync operation survives as is: the
//     local change has not reached the remote yet and must not be clobbered
//     by the stale remote copy;
//   - an empty remote collection never overwrites a non-empty local one.
//     An empty result can mean schema drift rather than truly no data, and
//     wiping local records over it is unrecoverable.
//
// Any list failure aborts the seed before local state is touched.
func Seed(ctx context.Context, deps Deps, src RemoteSource, diaries *Diaries, folders *Folders, tasks *Tasks) error {
	userID := deps.Sess.UserID
	if userID == "" {
		return nil
	}

	diaryRows, err := src.ListDiaries(ctx, userID)
	if err != nil {
		return fmt.Errorf("seed diaries: %w", err)
	}
	folderRows, err := src.ListFolders(ctx, userID)
	if err != nil {
		return fmt.Errorf("seed folders: %w", err)
	}
	taskRows, err := src.ListTasks(ctx, userID)
	if err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}

	fetchedDiaries := make([]models.Diary, 0, len(diaryRows))
	for _, r := range diaryRows {
		fetchedDiaries = append(fetchedDiaries, remote.DiaryFromRow(r))
	}
	fetchedFolders := make([]models.Folder, 0, len(folderRows))
	for _, r := range folderRows {
		fetchedFolders = append(fetchedFolders, remote.FolderFromRow(r))
	}
	fetchedTasks := make([]models.Task, 0, len(taskRows))
	for _, r := range taskRows {
		fetchedTasks = append(fetchedTasks, remote.TaskFromRow(r))
	}

	pending := func(id string) bool { return deps.Queue.HasEntity(ctx, id) }

	mergedDiaries := seedMerge(deps.Store.GetDiaries(ctx), fetchedDiaries,
		func(d models.Diary) string { return d.ID }, pending)
	mergedFolders := seedMerge(deps.Store.GetFolders(ctx), fetchedFolders,
		func(f models.Folder) string { return f.ID }, pending)
	mergedTasks := seedMerge(deps.Store.GetTasks(ctx), fetchedTasks,
		func(t models.Task) string { return t.ID }, pending)

	if err := deps.Store.SaveDiaries(ctx, mergedDiaries); err != nil {
		return err
	}
	if err := deps.Store.SaveFolders(ctx, mergedFolders); err != nil {
		return err
	}
	if err := deps.Store.SaveTasks(ctx, mergedTasks); err != nil {
		return err
	}

	if diaries != nil {
		diaries.Reload(ctx)
	}
	if folders != nil {
		folders.Reload(ctx)
	}
	if tasks != nil {
		tasks.Reload(ctx)
	}

	deps.Log.Info(ctx, "seeded local collections from remote",
		"diaries", len(mergedDiaries), "folders", len(mergedFolders), "tasks", len(mergedTasks))
	return nil
}

// seedMerge combines a fetched replica with the local collection. Fetched
// records win except where a local record still has queued changes. Local
// records absent from the fetch survive only while queued; and an empty
// fetch leaves the local collection untouched.
func seedMerge[T any](local, fetched []T, id func(T) string, pending func(string) bool) []T {
	if len(fetched) == 0 {
		return local
	}

	localByID := make(map[string]T, len(local))
	for _, item := range local {
		localByID[id(item)] = item
	}

	out := make([]T, 0, len(fetched))
	seen := make(map[string]struct{}, len(fetched))
	for _, item := range fetched {
		key := id(item)
		seen[key] = struct{}{}
		if l, ok := localByID[key]; ok && pending(key) {
			out = append(out, l)
			continue
		}
		out = append(out, item)
	}
	for _, item := range local {
		key := id(item)
		if _, ok := seen[key]; ok {
			continue
		}
		if pending(key) {
			out = append(out, item)
		}
	}
	return out
}
