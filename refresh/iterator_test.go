package refresh

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticSource(titles ...string) TitleSource {
	return func(context.Context) ([]string, error) {
		return titles, nil
	}
}

func TestTitleIterator_Batches(t *testing.T) {
	it := NewTitleIterator(staticSource("a", "b", "c", "d", "e"), 2)

	var batches [][]string
	err := it.ForEach(context.Background(), func(titles []string) error {
		batches = append(batches, append([]string(nil), titles...))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, batches)
}

func TestTitleIterator_DefaultBatchSize(t *testing.T) {
	it := NewTitleIterator(staticSource(), 0)
	assert.Equal(t, DefaultBatchSize, it.batchSize)

	called := false
	err := it.ForEach(context.Background(), func([]string) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestTitleIterator_SourceError(t *testing.T) {
	boom := errors.New("boom")
	it := NewTitleIterator(func(context.Context) ([]string, error) {
		return nil, boom
	}, 10)

	err := it.ForEach(context.Background(), func([]string) error { return nil })
	assert.ErrorIs(t, err, boom)
}

func TestTitleIterator_StopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	it := NewTitleIterator(staticSource("a", "b", "c"), 1)

	calls := 0
	err := it.ForEach(context.Background(), func([]string) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestTitleIterator_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	it := NewTitleIterator(staticSource("a", "b", "c"), 1)

	calls := 0
	err := it.ForEach(ctx, func([]string) error {
		calls++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
