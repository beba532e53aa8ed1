package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/antonpav/pad/internal/common"
	"github.com/antonpav/pad/internal/models"
)

// importPayload mirrors the export format. Items are kept as raw maps so
// the merge can tell "field absent" apart from "field zero".
type importPayload struct {
	Diaries []map[string]any `json:"diaries"`
	Folders []map[string]any `json:"folders"`
	Tasks   []map[string]any `json:"tasks"`
}

// exportPayload is the typed export format.
type exportPayload struct {
	Diaries []models.Diary  `json:"diaries"`
	Folders []models.Folder `json:"folders"`
	Tasks   []models.Task   `json:"tasks"`
}

// ExportAll serializes the namespace's diaries, folders and tasks.
func (s *Store) ExportAll(ctx context.Context) ([]byte, error) {
	payload := exportPayload{
		Diaries: s.GetDiaries(ctx),
		Folders: s.GetFolders(ctx),
		Tasks:   s.GetTasks(ctx),
	}
	return json.MarshalIndent(payload, "", "  ")
}

// ImportAll loads an export payload. With replace, stored collections are
// overwritten wholesale. Otherwise records merge by id, incoming fields
// taking precedence over existing ones: a shallow, whole-record
// last-write-wins merge. Fields absent on the incoming record keep their
// stored value; there is no field-level reconciliation. This is a known,
// intentional limitation.
//
// Recoverable defects in the data are repaired rather than rejected: a
// missing id gets a generated one, missing diary tags default to empty.
func (s *Store) ImportAll(ctx context.Context, raw []byte, replace bool) error {
	var payload importPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedImport, err)
	}

	// Only the id is defaulted before merging: it is the merge key. Other
	// defaults are applied after the merge so an incoming record that
	// omits a field can never clobber the stored value with a default.
	for _, items := range [][]map[string]any{payload.Diaries, payload.Folders, payload.Tasks} {
		for _, item := range items {
			defaultField(item, "id", uuid.NewString)
		}
	}

	diaries, err := mergeInto(s.GetDiaries(ctx), payload.Diaries, replace)
	if err != nil {
		return err
	}
	folders, err := mergeInto(s.GetFolders(ctx), payload.Folders, replace)
	if err != nil {
		return err
	}
	tasks, err := mergeInto(s.GetTasks(ctx), payload.Tasks, replace)
	if err != nil {
		return err
	}

	now := s.now()
	repairDiaries(diaries, now)
	repairFolders(folders, now)
	repairTasks(tasks, now)

	if err := s.SaveDiaries(ctx, diaries); err != nil {
		return err
	}
	if err := s.SaveFolders(ctx, folders); err != nil {
		return err
	}
	return s.SaveTasks(ctx, tasks)
}

// ImportDiaries merges a JSON array of diary records into the stored
// collection with ImportAll's semantics and returns the result.
func (s *Store) ImportDiaries(ctx context.Context, raw []byte, replace bool) ([]models.Diary, error) {
	incoming, err := decodeImportArray(raw)
	if err != nil {
		return nil, err
	}
	diaries, err := mergeInto(s.GetDiaries(ctx), incoming, replace)
	if err != nil {
		return nil, err
	}
	repairDiaries(diaries, s.now())
	if err := s.SaveDiaries(ctx, diaries); err != nil {
		return nil, err
	}
	return diaries, nil
}

// ImportFolders merges a JSON array of folder records into the stored
// collection with ImportAll's semantics and returns the result.
func (s *Store) ImportFolders(ctx context.Context, raw []byte, replace bool) ([]models.Folder, error) {
	incoming, err := decodeImportArray(raw)
	if err != nil {
		return nil, err
	}
	folders, err := mergeInto(s.GetFolders(ctx), incoming, replace)
	if err != nil {
		return nil, err
	}
	repairFolders(folders, s.now())
	if err := s.SaveFolders(ctx, folders); err != nil {
		return nil, err
	}
	return folders, nil
}

func decodeImportArray(raw []byte) ([]map[string]any, error) {
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedImport, err)
	}
	for _, item := range items {
		defaultField(item, "id", uuid.NewString)
	}
	return items, nil
}

func repairDiaries(diaries []models.Diary, now int64) {
	for i := range diaries {
		if diaries[i].Tags == nil {
			diaries[i].Tags = []string{}
		}
		if diaries[i].CreatedAt == 0 {
			diaries[i].CreatedAt = now
		}
		if diaries[i].UpdatedAt == 0 {
			diaries[i].UpdatedAt = diaries[i].CreatedAt
		}
	}
}

func repairFolders(folders []models.Folder, now int64) {
	for i := range folders {
		if folders[i].CreatedAt == 0 {
			folders[i].CreatedAt = now
		}
	}
}

func repairTasks(tasks []models.Task, now int64) {
	for i := range tasks {
		if tasks[i].CreatedAt == 0 {
			tasks[i].CreatedAt = now
		}
	}
}

func defaultField[T any](item map[string]any, key string, gen func() T) {
	if v, ok := item[key]; !ok || v == nil {
		item[key] = gen()
	}
}

// mergeInto overlays incoming raw records onto the existing typed
// collection. Matching ids are shallow-merged (incoming keys overwrite),
// new ids are appended in input order. With replace, existing records are
// discarded entirely.
func mergeInto[T any](existing []T, incoming []map[string]any, replace bool) ([]T, error) {
	if replace {
		return decodeRecords[T](incoming)
	}

	existingMaps, err := encodeRecords(existing)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(existingMaps))
	for i, item := range existingMaps {
		if id, ok := item["id"].(string); ok {
			index[id] = i
		}
	}

	for _, in := range incoming {
		id, _ := in["id"].(string)
		if i, ok := index[id]; ok {
			for k, v := range in {
				existingMaps[i][k] = v
			}
			continue
		}
		existingMaps = append(existingMaps, in)
	}

	return decodeRecords[T](existingMaps)
}

func encodeRecords[T any](items []T) ([]map[string]any, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	var out []map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return out, nil
}

func decodeRecords[T any](items []map[string]any) ([]T, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedImport, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
