package mock

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/poiesic/citescout/core"
	"github.com/poiesic/citescout/metrics"
)

// MockLookup is a test double for metrics.JournalLookup.
// It allows custom behavior injection via function fields.
type MockLookup struct {
	// LookupJournalFunc is called by LookupJournal if set.
	// If nil, Journals is consulted.
	LookupJournalFunc func(ctx context.Context, title string) (*core.Journal, error)

	// Journals maps titles to CiteScores for the default behavior.
	// Titles missing from the map have no entry.
	Journals map[string]float64

	mu      sync.Mutex
	calls   int
	queries []string
}

var _ metrics.JournalLookup = (*MockLookup)(nil)

// NewMockLookup creates a mock that knows the given titles and scores.
func NewMockLookup(journals map[string]float64) *MockLookup {
	return &MockLookup{Journals: journals}
}

// LookupJournal returns the configured journal for title.
func (m *MockLookup) LookupJournal(ctx context.Context, title string) (*core.Journal, error) {
	m.mu.Lock()
	m.calls++
	m.queries = append(m.queries, title)
	m.mu.Unlock()

	if m.LookupJournalFunc != nil {
		return m.LookupJournalFunc(ctx, title)
	}

	score, ok := m.Journals[title]
	if !ok {
		return nil, nil
	}
	journal := core.NewJournal(title)
	journal.Title = title
	journal.CiteScore = core.Score(score)
	journal.ScopusLink = "https://www.scopus.com/sourceid/" + strconv.FormatUint(uint64(journal.Id), 10)
	journal.FetchedAt = time.Now().UTC()
	return journal, nil
}

// CallCount returns the number of lookups performed.
func (m *MockLookup) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Queries returns the looked-up titles in call order.
func (m *MockLookup) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}
