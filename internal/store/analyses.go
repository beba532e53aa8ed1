package store

import (
	"context"

	"github.com/antonpav/pad/internal/common"
	"github.com/antonpav/pad/internal/models"
)

// GetAnalyses returns the stored analysis history, oldest first.
// Analyses are local-only and never synced.
func (s *Store) GetAnalyses(ctx context.Context) []models.AnalysisResult {
	return getCollection[models.AnalysisResult](ctx, s, s.db, keyAnalyses)
}

// AddAnalysis appends a result to the history. Results are append-only.
func (s *Store) AddAnalysis(ctx context.Context, r models.AnalysisResult) error {
	analyses := s.GetAnalyses(ctx)
	return saveCollection(ctx, s, s.db, keyAnalyses, append(analyses, r), s.now())
}

// GetAISettings returns the stored provider preferences, reporting ok=false
// when none are saved.
func (s *Store) GetAISettings(ctx context.Context) (models.AISettings, bool) {
	return getObject[models.AISettings](ctx, s, keyAISettings)
}

// SaveAISettings persists provider preferences.
func (s *Store) SaveAISettings(ctx context.Context, settings models.AISettings) error {
	return saveObject(ctx, s, keyAISettings, settings, s.now())
}

// GetSyncHistory returns stored drain-pass records, oldest first.
func (s *Store) GetSyncHistory(ctx context.Context) []models.SyncHistoryRecord {
	return getCollection[models.SyncHistoryRecord](ctx, s, s.db, keySyncHistory)
}

// AppendSyncHistory records a drain pass, trimming the history to
// MaxSyncHistory oldest-first.
func (s *Store) AppendSyncHistory(ctx context.Context, rec models.SyncHistoryRecord) error {
	history := s.GetSyncHistory(ctx)
	history = append(history, rec)
	if len(history) > common.MaxSyncHistory {
		history = history[len(history)-common.MaxSyncHistory:]
	}
	return saveCollection(ctx, s, s.db, keySyncHistory, history, s.now())
}

// GetSyncQueue returns the persisted pending operations in insertion order.
func (s *Store) GetSyncQueue(ctx context.Context) []models.SyncOperation {
	return getCollection[models.SyncOperation](ctx, s, s.db, keySyncQueue)
}

// SaveSyncQueue replaces the persisted queue.
func (s *Store) SaveSyncQueue(ctx context.Context, ops []models.SyncOperation) error {
	return saveCollection(ctx, s, s.db, keySyncQueue, ops, s.now())
}
