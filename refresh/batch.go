package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/citescout/core"
	"github.com/poiesic/citescout/metrics"
	"github.com/poiesic/citescout/storage"
)

// BatchResult counts the outcome of one batch.
type BatchResult struct {
	Found   int // looked up and cached
	Missing int // unknown to the metric service
	Failed  int // lookup returned an error
}

// Add accumulates other into r.
func (r *BatchResult) Add(other BatchResult) {
	r.Found += other.Found
	r.Missing += other.Missing
	r.Failed += other.Failed
}

// BatchProcessor looks up a batch of titles concurrently and caches the results.
type BatchProcessor struct {
	lookup metrics.JournalLookup
	cache  storage.JournalCache
	pool   *ants.Pool
	logger *slog.Logger
}

// NewBatchProcessor creates a new batch processor.
// pool: worker pool the lookups run on; owned by the caller
func NewBatchProcessor(lookup metrics.JournalLookup, cache storage.JournalCache, pool *ants.Pool, logger *slog.Logger) *BatchProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		lookup: lookup,
		cache:  cache,
		pool:   pool,
		logger: logger,
	}
}

// Process looks up every title and stores the journals found in one write.
// Individual lookup failures are counted and logged; only a cache write
// failure or cancellation is returned as an error.
func (bp *BatchProcessor) Process(ctx context.Context, titles []string) (BatchResult, error) {
	var result BatchResult
	if len(titles) == 0 {
		return result, nil
	}

	journals := make([]*core.Journal, len(titles))
	failed := make([]bool, len(titles))

	var wg sync.WaitGroup
	for i, title := range titles {
		wg.Add(1)
		err := bp.pool.Submit(func() {
			defer wg.Done()
			journal, err := bp.lookup.LookupJournal(ctx, title)
			if err != nil {
				bp.logger.Warn("lookup failed", "title", title, "err", err)
				failed[i] = true
				return
			}
			journals[i] = journal
		})
		if err != nil {
			wg.Done()
			return result, fmt.Errorf("scheduling lookup: %w", err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	found := make([]*core.Journal, 0, len(journals))
	for i, journal := range journals {
		switch {
		case failed[i]:
			result.Failed++
		case journal == nil:
			result.Missing++
		default:
			found = append(found, journal)
		}
	}

	if len(found) > 0 {
		if err := bp.cache.PutJournals(ctx, found...); err != nil {
			return result, fmt.Errorf("failed to cache journals: %w", err)
		}
	}
	result.Found = len(found)

	return result, nil
}
