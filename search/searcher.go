package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/citescout/storage"
)

// Searcher runs the Matcher against a catalog loaded fresh for every search.
type Searcher struct {
	catalog storage.CatalogRepository
	matcher *Matcher
	logger  *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMatcher replaces the default matcher.
func WithMatcher(matcher *Matcher) Option {
	return func(s *Searcher) error {
		if matcher != nil {
			s.matcher = matcher
		}
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(catalog storage.CatalogRepository, opts ...Option) (*Searcher, error) {
	if catalog == nil {
		return nil, ErrCatalogRepositoryRequired
	}

	s := &Searcher{
		catalog: catalog,
		matcher: NewMatcher(),
		logger:  slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search loads the catalog and returns the titles matching keywords.
// A catalog failure is returned wrapped in ErrCatalogUnavailable; it is never
// reported as an empty result.
func (s *Searcher) Search(ctx context.Context, keywords []string) ([]string, error) {
	return s.SearchWithMonitor(ctx, keywords, nil)
}

// SearchWithMonitor is Search with matcher callbacks.
func (s *Searcher) SearchWithMonitor(ctx context.Context, keywords []string, monitor Monitor) ([]string, error) {
	titles, err := s.catalog.Titles(ctx)
	if err != nil {
		s.logger.Error("error loading catalog", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	results := s.matcher.MatchWithMonitor(titles, keywords, monitor)
	s.logger.Debug("search finished",
		"keywords", len(keywords),
		"catalog", len(titles),
		"matches", len(results),
		"strategy", s.matcher.Strategy().String(),
	)
	return results, nil
}
