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


package citescout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/citescout/messaging"
	"github.com/poiesic/citescout/metrics"
	"github.com/poiesic/citescout/refresh"
	"github.com/poiesic/citescout/relay"
	"github.com/poiesic/citescout/search"
	"github.com/poiesic/citescout/storage"
	"github.com/poiesic/citescout/storage/badger"
	"github.com/poiesic/citescout/storage/sqlite"
)

// ErrCachePathRequired is returned when no cache directory is given and the
// service is not in-memory.
var ErrCachePathRequired = errors.New("cache path required")

// Service owns the stores and builds the collaborators around them.
type Service struct {
	backend  *badger.Backend
	store    *badger.Catalog
	cache    *badger.JournalCache
	source   *sqlite.Catalog
	catalog  storage.CatalogRepository
	logger   *slog.Logger
	mu       sync.Mutex
	released []*relay.Enricher
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	inMemory   bool
	sqlitePath string
	table      string
	column     string
	journalTTL time.Duration
}

// WithInMemory keeps the cache and imported catalog in memory.
func WithInMemory() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// WithSQLiteCatalog searches the titles of a SQLite database instead of the
// imported catalog. Empty table or column use the sqlite package defaults.
func WithSQLiteCatalog(path, table, column string) ServiceOption {
	return func(o *serviceOptions) {
		o.sqlitePath = path
		o.table = table
		o.column = column
	}
}

// WithJournalTTL sets how long cached journals live. Zero disables expiry.
func WithJournalTTL(ttl time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.journalTTL = ttl
	}
}

// NewService opens the Badger store at cachePath and the catalog source.
func NewService(cachePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		journalTTL: badger.DefaultJournalTTL,
	}
	for _, opt := range opts {
		opt(options)
	}
	if cachePath == "" && !options.inMemory {
		return nil, ErrCachePathRequired
	}

	backend, err := badger.OpenBackend(cachePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	store, err := badger.NewCatalog(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	cache, err := badger.NewJournalCache(backend, badger.WithTTL(options.journalTTL))
	if err != nil {
		backend.Close()
		return nil, err
	}

	s := &Service{
		backend: backend,
		store:   store,
		cache:   cache,
		catalog: store,
		logger:  slog.Default().With("component", "service"),
	}

	if options.sqlitePath != "" {
		source, err := sqlite.OpenCatalog(sqlite.Config{
			Path:   options.sqlitePath,
			Table:  options.table,
			Column: options.column,
		})
		if err != nil {
			backend.Close()
			return nil, err
		}
		s.source = source
		s.catalog = source
	}

	return s, nil
}

// Close releases enrichers created by the service, then closes the stores.
func (s *Service) Close() error {
	s.mu.Lock()
	for _, enricher := range s.released {
		enricher.Release()
	}
	s.released = nil
	s.mu.Unlock()

	if s.source != nil {
		if err := s.source.Close(); err != nil {
			s.logger.Error("error closing catalog source", "err", err)
		}
	}

	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Catalog returns the catalog searches run against.
func (s *Service) Catalog() storage.CatalogRepository {
	return s.catalog
}

// CatalogStore returns the imported catalog held in Badger.
func (s *Service) CatalogStore() storage.CatalogWriter {
	return s.store
}

// JournalCache returns the Badger journal cache.
func (s *Service) JournalCache() storage.JournalCache {
	return s.cache
}

// NewSearcher creates a searcher over Catalog.
func (s *Service) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(s.catalog, opts...)
}

// NewEnricher creates an enricher backed by the service's journal cache.
// The enricher is released when the service is closed.
func (s *Service) NewEnricher(lookup metrics.JournalLookup, opts ...relay.EnricherOption) (*relay.Enricher, error) {
	opts = append([]relay.EnricherOption{relay.WithCache(s.cache)}, opts...)
	enricher, err := relay.NewEnricher(lookup, opts...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.released = append(s.released, enricher)
	s.mu.Unlock()
	return enricher, nil
}

// NewPipeline wires a searcher and a cached enricher into a relay pipeline.
// The caller releases the pipeline; the enricher is released on Close.
func (s *Service) NewPipeline(searcher *search.Searcher, lookup metrics.JournalLookup, sender messaging.Sender, opts ...relay.Option) (*relay.Pipeline, error) {
	enricher, err := s.NewEnricher(lookup)
	if err != nil {
		return nil, err
	}
	return relay.NewPipeline(searcher, enricher, sender, opts...)
}

// NewRefresher creates a refresher that fills the service's journal cache.
func (s *Service) NewRefresher(lookup metrics.JournalLookup, config *refresh.Config, progress io.Writer) (*refresh.Refresher, error) {
	return refresh.NewRefresher(s.catalog, s.cache, lookup, config, progress)
}

// ImportCatalog replaces the imported catalog with the titles of source.
// Empty and repeated titles are kept so positions match the source.
func (s *Service) ImportCatalog(ctx context.Context, source storage.CatalogRepository) (int, error) {
	titles, err := source.Titles(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read source catalog: %w", err)
	}

	if err := s.store.ReplaceTitles(ctx, titles); err != nil {
		return 0, fmt.Errorf("failed to store catalog: %w", err)
	}

	s.logger.Info("catalog imported", "titles", len(titles))
	return len(titles), nil
}
