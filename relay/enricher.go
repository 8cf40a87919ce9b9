package relay

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/citescout/core"
	"github.com/poiesic/citescout/metrics"
	"github.com/poiesic/citescout/storage"
)

// Enricher attaches metrics to matched titles.
// Cached journals are served without a lookup; fresh lookups are cached.
type Enricher struct {
	lookup   metrics.JournalLookup
	cache    storage.JournalCache
	pool     *ants.Pool
	poolSize int
	logger   *slog.Logger
}

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher) error

// WithCache sets the journal cache. Default is no cache.
func WithCache(cache storage.JournalCache) EnricherOption {
	return func(e *Enricher) error {
		e.cache = cache
		return nil
	}
}

// WithLookupPoolSize sets how many lookups run concurrently.
// Default is runtime.NumCPU(), with a minimum of 4.
func WithLookupPoolSize(size int) EnricherOption {
	return func(e *Enricher) error {
		if size < 1 {
			size = 1
		}
		e.poolSize = size
		return nil
	}
}

// WithEnricherLogger sets a custom logger.
// Default is slog.Default().
func WithEnricherLogger(logger *slog.Logger) EnricherOption {
	return func(e *Enricher) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEnricher creates a new enricher.
func NewEnricher(lookup metrics.JournalLookup, opts ...EnricherOption) (*Enricher, error) {
	if lookup == nil {
		return nil, ErrLookupRequired
	}

	e := &Enricher{
		lookup:   lookup,
		poolSize: max(runtime.NumCPU(), 4),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "enricher")

	pool, err := ants.NewPool(e.poolSize, ants.WithPanicHandler(func(p any) {
		e.logger.Error("lookup panicked", "panic", p)
	}))
	if err != nil {
		return nil, err
	}
	e.pool = pool

	return e, nil
}

// Enrich returns a journal for every title the metric service knows, in
// title order. Lookup failures are logged and the title is skipped.
func (e *Enricher) Enrich(ctx context.Context, titles []string) []*core.Journal {
	found := make([]*core.Journal, len(titles))

	var wg sync.WaitGroup
	for i, title := range titles {
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			found[i] = e.enrichOne(ctx, title)
		})
		if err != nil {
			wg.Done()
			e.logger.Error("error scheduling lookup", "title", title, "err", err)
		}
	}
	wg.Wait()

	journals := make([]*core.Journal, 0, len(found))
	for _, journal := range found {
		if journal != nil {
			journals = append(journals, journal)
		}
	}
	return journals
}

func (e *Enricher) enrichOne(ctx context.Context, title string) *core.Journal {
	if e.cache != nil {
		journal, err := e.cache.GetJournal(ctx, title)
		if err == nil {
			return journal
		}
		if !errors.Is(err, storage.ErrNotFound) {
			e.logger.Warn("error reading journal cache", "title", title, "err", err)
		}
	}

	journal, err := e.lookup.LookupJournal(ctx, title)
	if err != nil {
		e.logger.Warn("error fetching journal metrics", "title", title, "err", err)
		return nil
	}
	if journal == nil {
		return nil
	}

	if e.cache != nil {
		if err := e.cache.PutJournals(ctx, journal); err != nil {
			e.logger.Warn("error caching journal", "title", title, "err", err)
		}
	}
	return journal
}

// Release stops the lookup pool.
func (e *Enricher) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}
