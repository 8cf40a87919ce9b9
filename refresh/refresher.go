// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package refresh

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/citescout/metrics"
	"github.com/poiesic/citescout/storage"
)

// Config holds configuration for a refresh run.
type Config struct {
	// BatchSize is the number of titles looked up before each cache write
	BatchSize int

	// ReportInterval is how often to report progress (number of titles)
	ReportInterval int

	// Concurrency is the number of lookups in flight
	Concurrency int

	// CachedOnly restricts the run to titles that already have a cache entry
	CachedOnly bool

	// Limit stops after this many titles; 0 means no limit
	Limit int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: DefaultBatchSize,
		Concurrency:    4,
	}
}

// Summary reports the outcome of a run.
type Summary struct {
	BatchResult
	Total   int
	Elapsed time.Duration
}

// Refresher fills the journal cache from the metric service.
type Refresher struct {
	catalog  storage.CatalogRepository
	cache    storage.JournalCache
	lookup   metrics.JournalLookup
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewRefresher creates a new refresher.
// progress: where to write progress output (typically os.Stderr)
func NewRefresher(catalog storage.CatalogRepository, cache storage.JournalCache, lookup metrics.JournalLookup, config *Config, progress io.Writer) (*Refresher, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if cache == nil {
		return nil, ErrCacheRequired
	}
	if lookup == nil {
		return nil, ErrLookupRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Refresher{
		catalog:  catalog,
		cache:    cache,
		lookup:   lookup,
		config:   config,
		progress: progress,
		logger:   slog.Default().With("component", "refresh"),
	}, nil
}

// Run walks the configured titles and caches their current metrics.
// Progress is reported to the configured writer.
func (r *Refresher) Run(ctx context.Context) (*Summary, error) {
	titles, err := r.titles(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Total: len(titles)}
	if len(titles) == 0 {
		fmt.Fprintf(r.progress, "No titles to refresh (0 titles)\n")
		return summary, nil
	}

	pool, err := ants.NewPool(max(r.config.Concurrency, 1))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	processor := NewBatchProcessor(r.lookup, r.cache, pool, r.logger)
	iterator := NewTitleIterator(func(context.Context) ([]string, error) {
		return titles, nil
	}, r.config.BatchSize)

	fmt.Fprintf(r.progress, "Refreshing %d titles (batch size: %d)\n", len(titles), r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, len(titles), r.config.ReportInterval)
	tracker.Start()

	err = iterator.ForEach(ctx, func(batch []string) error {
		result, err := processor.Process(ctx, batch)
		summary.Add(result)
		tracker.Fail(result.Failed)
		tracker.Increment(len(batch))
		return err
	})
	summary.Elapsed = tracker.Elapsed()
	if err != nil {
		fmt.Fprintln(r.progress)
		return summary, err
	}

	tracker.Finish()
	fmt.Fprintf(r.progress, "Refresh complete. %d cached, %d unknown, %d failed in %v\n",
		summary.Found, summary.Missing, summary.Failed, summary.Elapsed.Round(time.Second))
	r.logger.Info("refresh complete", "total", summary.Total, "found", summary.Found,
		"missing", summary.Missing, "failed", summary.Failed)

	return summary, nil
}

func (r *Refresher) titles(ctx context.Context) ([]string, error) {
	var (
		titles []string
		err    error
	)
	if r.config.CachedOnly {
		titles, err = r.cache.CachedTitles(ctx)
	} else {
		titles, err = r.catalog.Titles(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list titles: %w", err)
	}

	titles = dedupe(titles)
	if r.config.Limit > 0 && len(titles) > r.config.Limit {
		titles = titles[:r.config.Limit]
	}
	return titles, nil
}

// dedupe drops repeated and empty titles, keeping first occurrences.
func dedupe(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	unique := make([]string, 0, len(titles))
	for _, title := range titles {
		if title == "" {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		unique = append(unique, title)
	}
	return unique
}
