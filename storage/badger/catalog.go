package badger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/citescout/storage"
)

// Catalog implements storage.CatalogWriter for BadgerDB.
// Titles are stored one per key in catalog order.
type Catalog struct {
	backend *Backend
}

var _ storage.CatalogWriter = (*Catalog)(nil)

// NewCatalog creates a new Catalog.
func NewCatalog(backend *Backend) (*Catalog, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &Catalog{backend: backend}, nil
}

// Close is a no-op; the backend is owned by the caller.
func (c *Catalog) Close() error {
	return nil
}

// Titles returns every stored title in catalog order.
func (c *Catalog) Titles(ctx context.Context) ([]string, error) {
	if c.backend.IsClosed() {
		return nil, fmt.Errorf("%w: %w", storage.ErrCatalogRead, storage.ErrStorageClosed)
	}

	titles := []string{}
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(catalogTitlePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				titles = append(titles, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCatalogRead, err)
	}
	return titles, nil
}

// Count returns the number of stored titles.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	if c.backend.IsClosed() {
		return 0, fmt.Errorf("%w: %w", storage.ErrCatalogRead, storage.ErrStorageClosed)
	}
	count, err := c.backend.CountPrefix(ctx, []byte(catalogTitlePrefix))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", storage.ErrCatalogRead, err)
	}
	return count, nil
}

// ReplaceTitles discards the stored catalog and writes titles in order.
// Duplicates and empty strings are stored as given.
func (c *Catalog) ReplaceTitles(ctx context.Context, titles []string) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	if _, err := c.backend.DeletePrefix(ctx, []byte(catalogTitlePrefix)); err != nil {
		return err
	}

	return c.backend.WriteBatch(func(set func(entry *badger.Entry) error) error {
		for i, title := range titles {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := set(badger.NewEntry(makeCatalogTitleKey(uint64(i)), []byte(title))); err != nil {
				return err
			}
		}
		return nil
	})
}
