package relay

import (
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/citescout/core"
)

// Replies sent to the user.
const (
	SearchingReply = "Searching for journals matching your keywords..."
	NoMatchesReply = "No matching journals found for your keywords."
	NoDataReply    = "No journal data available for the matched titles."
	ErrorReply     = "Sorry, there was an error processing your request. Please try again later."
)

// DefaultMaxResults is the number of journals in a reply.
const DefaultMaxResults = 10

// Rank orders journals by CiteScore, highest first, with unknown scores
// after every known one. Equal scores keep their input order. Nil entries
// are dropped and at most max journals are returned; max below 1 keeps all.
func Rank(journals []*core.Journal, max int) []*core.Journal {
	ranked := make([]*core.Journal, 0, len(journals))
	for _, journal := range journals {
		if journal != nil {
			ranked = append(ranked, journal)
		}
	}

	slices.SortStableFunc(ranked, func(a, b *core.Journal) int {
		switch {
		case a.CiteScore.Known && !b.CiteScore.Known:
			return -1
		case !a.CiteScore.Known && b.CiteScore.Known:
			return 1
		case !a.CiteScore.Known:
			return 0
		case a.CiteScore.Value > b.CiteScore.Value:
			return -1
		case a.CiteScore.Value < b.CiteScore.Value:
			return 1
		default:
			return 0
		}
	})

	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}

// FormatResults renders ranked journals as the reply text.
func FormatResults(journals []*core.Journal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d Journals matching your search:\n\n", len(journals))
	for i, journal := range journals {
		fmt.Fprintf(&b, "%d. %s\n   CiteScore: %s\n   Link: %s\n\n",
			i+1, journal.Title, journal.CiteScore, journal.ScopusLink)
	}
	return b.String()
}
