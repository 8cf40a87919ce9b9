package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// NotAvailable is rendered in place of journal fields the metric service did not supply.
const NotAvailable = "N/A"

// ID is a unique identifier for domain entities.
// It is derived from content so identical titles always map to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// CiteScore is a journal quality metric that may be unknown.
type CiteScore struct {
	Value float64
	Known bool
}

// Score returns a known CiteScore with the given value.
func Score(value float64) CiteScore {
	return CiteScore{Value: value, Known: true}
}

// String renders the score the way it appears in replies: the shortest
// decimal form of the value, or "N/A" when unknown.
func (c CiteScore) String() string {
	if !c.Known {
		return NotAvailable
	}
	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}

// Journal is the enrichment result for a single catalog title.
type Journal struct {
	Id         ID
	Query      string    // Catalog title the lookup was made for
	Title      string    // Title as reported by the metric service
	CiteScore  CiteScore // Current CiteScore, possibly unknown
	ScopusLink string    // Scopus source page, or "N/A"
	FetchedAt  time.Time // When the metric service was queried
}

// NewJournal creates a journal for a catalog title with its ID derived from the title.
// Title and link default to "N/A".
func NewJournal(query string) *Journal {
	return &Journal{
		Id:         IDFromContent(query),
		Query:      query,
		Title:      NotAvailable,
		ScopusLink: NotAvailable,
	}
}

// InboundMessage is a text message received from a messaging webhook.
type InboundMessage struct {
	ID        string    // Provider message ID, used for duplicate suppression
	From      string    // Sender address (phone number for WhatsApp)
	Body      string    // Free-text search query
	Timestamp time.Time // When the provider says the message was sent
}
