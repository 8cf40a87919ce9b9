package refresh

import (
	"context"
)

// DefaultBatchSize is the default number of titles per batch.
const DefaultBatchSize = 50

// TitleSource lists the titles to walk.
type TitleSource func(ctx context.Context) ([]string, error)

// TitleIterator walks titles from a source in batches.
type TitleIterator struct {
	source    TitleSource
	batchSize int
}

// NewTitleIterator creates a new title iterator.
// batchSize: number of titles per batch (DefaultBatchSize if <= 0)
func NewTitleIterator(source TitleSource, batchSize int) *TitleIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &TitleIterator{
		source:    source,
		batchSize: batchSize,
	}
}

// ForEach loads the titles once and calls fn for each batch, in order.
// Iteration stops on the first error from fn. Context cancellation is
// checked between batches.
func (it *TitleIterator) ForEach(ctx context.Context, fn func(titles []string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	titles, err := it.source(ctx)
	if err != nil {
		return err
	}

	for start := 0; start < len(titles); start += it.batchSize {
		end := min(start+it.batchSize, len(titles))
		if err := fn(titles[start:end]); err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}
