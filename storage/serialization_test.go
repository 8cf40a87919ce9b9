package storage

import (
	"testing"
	"time"

	"github.com/poiesic/citescout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalJournal(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	scored := core.NewJournal("Journal of Machine Learning Research")
	scored.Title = "Journal of Machine Learning Research"
	scored.CiteScore = core.Score(11.4)
	scored.ScopusLink = "https://www.scopus.com/sourceid/21101"
	scored.FetchedAt = now

	unscored := core.NewJournal("Revista Española de Cardiología")
	unscored.FetchedAt = now

	for _, journal := range []*core.Journal{scored, unscored} {
		t.Run(journal.Query, func(t *testing.T) {
			data := MarshalJournal(journal)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalJournal(data)
			require.NoError(t, err)
			assert.Equal(t, journal, decoded)
		})
	}
}

func TestUnmarshalJournal_Invalid(t *testing.T) {
	journal := core.NewJournal("Deep Learning Quarterly")
	data := MarshalJournal(journal)

	t.Run("empty data", func(t *testing.T) {
		_, err := UnmarshalJournal(nil)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("unknown version", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[0] = 99
		_, err := UnmarshalJournal(bad)
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("truncated data", func(t *testing.T) {
		_, err := UnmarshalJournal(data[:len(data)/2])
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}
