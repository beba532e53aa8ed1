package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/antonpav/pad/internal/analysis"
	"github.com/antonpav/pad/internal/models"
)

// Analyses runs the analysis provider over diary text and keeps the
// append-only result history. Results are local-only and never synced.
type Analyses struct {
	deps     Deps
	provider analysis.Provider
}

// NewAnalyses binds a provider, usually an analysis.Chain.
func NewAnalyses(deps Deps, provider analysis.Provider) *Analyses {
	return &Analyses{deps: deps, provider: provider}
}

// Analyze runs the provider over the text and records the result against
// the diary. Suggestion lists are capped by the stored AI settings.
func (s *Analyses) Analyze(ctx context.Context, diaryID, text string) (models.AnalysisResult, error) {
	r, err := s.provider.Analyze(ctx, text)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	if settings, ok := s.deps.Store.GetAISettings(ctx); ok && settings.MaxSuggestions > 0 &&
		len(r.Suggestions) > settings.MaxSuggestions {
		r.Suggestions = r.Suggestions[:settings.MaxSuggestions]
	}

	result := models.AnalysisResult{
		ID:          uuid.NewString(),
		DiaryID:     diaryID,
		Summary:     r.Summary,
		Suggestions: r.Suggestions,
		Tags:        models.NormalizeTags(r.Tags),
		CreatedAt:   s.deps.now(),
		Source:      r.Source,
	}
	if err := s.deps.Store.AddAnalysis(ctx, result); err != nil {
		return models.AnalysisResult{}, err
	}
	return result, nil
}

// History returns the full analysis history, oldest first.
func (s *Analyses) History(ctx context.Context) []models.AnalysisResult {
	return s.deps.Store.GetAnalyses(ctx)
}

// ForDiary returns the analyses recorded for one diary, oldest first.
func (s *Analyses) ForDiary(ctx context.Context, diaryID string) []models.AnalysisResult {
	all := s.deps.Store.GetAnalyses(ctx)
	out := make([]models.AnalysisResult, 0)
	for _, r := range all {
		if r.DiaryID == diaryID {
			out = append(out, r)
		}
	}
	return out
}

// Settings returns the stored provider preferences.
func (s *Analyses) Settings(ctx context.Context) (models.AISettings, bool) {
	return s.deps.Store.GetAISettings(ctx)
}

// SaveSettings stores the provider preferences.
func (s *Analyses) SaveSettings(ctx context.Context, settings models.AISettings) error {
	return s.deps.Store.SaveAISettings(ctx, settings)
}
