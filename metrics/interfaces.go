package metrics

import (
	"context"

	"github.com/poiesic/citescout/core"
)

// JournalLookup resolves a catalog title to its journal metrics.
// Implementations must be thread-safe for concurrent use.
type JournalLookup interface {
	// LookupJournal fetches metrics for title.
	// The returned journal's Query is title. Fields the service does not
	// supply are "N/A" or an unknown CiteScore.
	// Returns (nil, nil) when the service has no entry for title.
	// Returns an error if the lookup fails.
	LookupJournal(ctx context.Context, title string) (*core.Journal, error)
}
