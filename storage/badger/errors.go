package badger

import "errors"

var (
	// ErrBackendRequired is returned when a repository is created without a backend.
	ErrBackendRequired = errors.New("badger backend is required")

	// ErrInvalidTTL is returned when a cache TTL is negative.
	ErrInvalidTTL = errors.New("cache TTL must not be negative")
)
