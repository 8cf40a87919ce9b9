package refresh

import "errors"

var (
	// ErrCatalogRequired is returned when a catalog is not provided.
	ErrCatalogRequired = errors.New("catalog required")

	// ErrCacheRequired is returned when a journal cache is not provided.
	ErrCacheRequired = errors.New("journal cache required")

	// ErrLookupRequired is returned when a journal lookup is not provided.
	ErrLookupRequired = errors.New("journal lookup required")
)
