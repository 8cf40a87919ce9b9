package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/citescout/core"
	"github.com/poiesic/citescout/storage"
)

// DefaultJournalTTL is how long a cached journal is served before it must be
// looked up again.
const DefaultJournalTTL = 7 * 24 * time.Hour

// JournalCache implements storage.JournalCache for BadgerDB.
// Entries expire through badger's native TTL support.
type JournalCache struct {
	backend *Backend
	ttl     time.Duration
}

var _ storage.JournalCache = (*JournalCache)(nil)

// JournalCacheOption configures a JournalCache.
type JournalCacheOption func(*JournalCache) error

// WithTTL sets how long entries live. Zero keeps entries until replaced.
// Default is DefaultJournalTTL.
func WithTTL(ttl time.Duration) JournalCacheOption {
	return func(c *JournalCache) error {
		if ttl < 0 {
			return ErrInvalidTTL
		}
		c.ttl = ttl
		return nil
	}
}

// NewJournalCache creates a new JournalCache.
func NewJournalCache(backend *Backend, opts ...JournalCacheOption) (*JournalCache, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}

	c := &JournalCache{
		backend: backend,
		ttl:     DefaultJournalTTL,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Close is a no-op; the backend is owned by the caller.
func (c *JournalCache) Close() error {
	return nil
}

// TTL returns the configured entry lifetime.
func (c *JournalCache) TTL() time.Duration {
	return c.ttl
}

// GetJournal retrieves the cached journal for a catalog title.
func (c *JournalCache) GetJournal(ctx context.Context, title string) (*core.Journal, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var journal *core.Journal
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeJournalKey(title))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			journal, unmarshalErr = storage.UnmarshalJournal(val)
			return unmarshalErr
		})
	}, false)

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Keys are hashed; a different stored title is a miss
	if journal.Query != title {
		return nil, storage.ErrNotFound
	}
	return journal, nil
}

// PutJournals stores or replaces cached journals.
func (c *JournalCache) PutJournals(ctx context.Context, journals ...*core.Journal) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	for _, journal := range journals {
		if err := core.ValidateJournal(journal); err != nil {
			return err
		}
	}

	return c.backend.WriteBatch(func(set func(entry *badger.Entry) error) error {
		for _, journal := range journals {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry := badger.NewEntry(makeJournalKey(journal.Query), storage.MarshalJournal(journal))
			if c.ttl > 0 {
				entry = entry.WithTTL(c.ttl)
			}
			if err := set(entry); err != nil {
				return fmt.Errorf("caching %q: %w", journal.Query, err)
			}
		}
		return nil
	})
}

// CachedTitles returns the catalog titles with a live cache entry.
func (c *JournalCache) CachedTitles(ctx context.Context) ([]string, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var titles []string
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(journalPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				journal, err := storage.UnmarshalJournal(val)
				if err != nil {
					return err
				}
				titles = append(titles, journal.Query)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return titles, nil
}
