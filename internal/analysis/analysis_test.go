package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonpav/pad/internal/logging"
)

type failingProvider struct{ calls int }

func (f *failingProvider) Analyze(context.Context, string) (*Result, error) {
	f.calls++
	return nil, fmt.Errorf("provider down")
}

type fixedProvider struct{ result *Result }

func (f *fixedProvider) Analyze(context.Context, string) (*Result, error) {
	return f.result, nil
}

func TestHeuristicSummaryAndTags(t *testing.T) {
	text := "Long meeting about the migration project today. The project deadline moved again. I felt stressed but the project team stayed calm."

	r, err := Heuristic{}.Analyze(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, "heuristic", r.Source)
	assert.Equal(t, "Long meeting about the migration project today. The project deadline moved again.", r.Summary)
	assert.Contains(t, r.Tags, "project")
	assert.NotEmpty(t, r.Suggestions)
}

func TestHeuristicSuggestionCues(t *testing.T) {
	r, err := Heuristic{}.Analyze(context.Background(), "I felt anxious and worried all day.")
	require.NoError(t, err)
	assert.Contains(t, r.Suggestions[0], "worry")

	r, err = Heuristic{}.Analyze(context.Background(), "Ordinary uneventful day.")
	require.NoError(t, err)
	require.Len(t, r.Suggestions, 1)
	assert.Contains(t, r.Suggestions[0], "remember")
}

func TestHeuristicEmptyText(t *testing.T) {
	_, err := Heuristic{}.Analyze(context.Background(), "   ")
	assert.Error(t, err)
}

func TestChainFallsBackToHeuristic(t *testing.T) {
	failing := &failingProvider{}
	chain := NewChain(logging.NewText(io.Discard, slog.LevelError), failing)

	r, err := chain.Analyze(context.Background(), "A quiet day in the garden. Planted tomatoes.")
	require.NoError(t, err)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, "heuristic", r.Source)
}

func TestChainPrefersFirstSuccess(t *testing.T) {
	want := &Result{Summary: "remote summary", Source: "anthropic"}
	chain := NewChain(logging.NewText(io.Discard, slog.LevelError), &fixedProvider{result: want})

	r, err := chain.Analyze(context.Background(), "anything")
	require.NoError(t, err)
	assert.Same(t, want, r)
}

func TestExtractJSON(t *testing.T) {
	s, err := extractJSON("Here you go:\n{\"summary\":\"ok\"}\nthanks")
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, s)

	_, err = extractJSON("no json here")
	assert.Error(t, err)
}
