package storage

import (
	"context"

	"github.com/poiesic/citescout/core"
)

// CatalogRepository provides read access to the searchable title catalog.
// Implementations must be thread-safe and support concurrent access.
type CatalogRepository interface {
	// Titles returns every title in the catalog, in store order.
	// The returned slice is owned by the caller.
	// Returns an error wrapping ErrCatalogRead if the store cannot be read.
	Titles(ctx context.Context) ([]string, error)

	// Count returns the number of titles in the catalog.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}

// CatalogWriter is a CatalogRepository whose contents can be replaced.
type CatalogWriter interface {
	CatalogRepository

	// ReplaceTitles discards the current catalog and stores titles in order.
	ReplaceTitles(ctx context.Context, titles []string) error
}

// JournalCache stores enrichment results keyed by the catalog title that was looked up.
// Implementations must be thread-safe and support concurrent access.
type JournalCache interface {
	// GetJournal retrieves the cached journal for a catalog title.
	// Returns ErrNotFound if nothing is cached or the entry has expired.
	GetJournal(ctx context.Context, title string) (*core.Journal, error)

	// PutJournals stores or replaces cached journals.
	// Each journal must pass core.ValidateJournal.
	PutJournals(ctx context.Context, journals ...*core.Journal) error

	// CachedTitles returns the catalog titles that currently have a cache entry.
	CachedTitles(ctx context.Context) ([]string, error)

	// Close releases resources held by the cache.
	Close() error
}
