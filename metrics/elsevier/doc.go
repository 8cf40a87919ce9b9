// Package elsevier implements metrics.JournalLookup against the Elsevier
// Serial Title API.
//
// Each lookup is a single GET of /content/serial/title for the catalog title.
// The first entry of the response supplies the canonical title, the current
// CiteScore and the Scopus source page link. Throttled (429) and server
// errors are retried with exponential backoff; other client errors are not.
package elsevier
