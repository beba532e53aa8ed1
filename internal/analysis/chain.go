package analysis

import (
	"context"

	"github.com/antonpav/pad/internal/logging"
)

// Chain tries each provider in order and returns the first successful
// result, finishing with the local heuristic. Because the heuristic only
// fails on empty input, a chain over non-empty text always produces a
// result.
type Chain struct {
	providers []Provider
	log       logging.Logger
}

// NewChain builds a chain over the given providers; the Heuristic fallback
// is appended automatically.
func NewChain(log logging.Logger, providers ...Provider) *Chain {
	return &Chain{
		providers: append(providers, Heuristic{}),
		log:       log,
	}
}

func (c *Chain) Analyze(ctx context.Context, text string) (*Result, error) {
	var lastErr error
	for _, p := range c.providers {
		r, err := p.Analyze(ctx, text)
		if err == nil {
			return r, nil
		}
		lastErr = err
		c.log.Warn(ctx, "analysis provider failed, trying next", "error", err)
	}
	return nil, lastErr
}
