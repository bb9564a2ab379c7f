package source

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"eventtrader/internal/models"
)

// Source pulls one finite batch of candidates per cycle. Implementations
// absorb their own upstream faults where they can; errors returned here are
// logged by the merger and never abort the other sources.
type Source interface {
	Name() string
	Pull(ctx context.Context) ([]models.CandidateItem, error)
}

// Merge pulls every source in parallel and collects the results into one
// candidate batch. A failing or unreachable source contributes zero items.
func Merge(ctx context.Context, logger *zap.Logger, sources []Source) []models.CandidateItem {
	type pulled struct {
		name  string
		items []models.CandidateItem
		err   error
	}

	results := make([]pulled, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			items, err := src.Pull(ctx)
			results[i] = pulled{name: src.Name(), items: items, err: err}
		}(i, src)
	}
	wg.Wait()

	var out []models.CandidateItem
	for _, res := range results {
		if res.err != nil {
			if logger != nil {
				logger.Warn("source pull failed", zap.String("source", res.name), zap.Error(res.err))
			}
			continue
		}
		out = append(out, res.items...)
	}
	return out
}
