// Package refresh warms and refreshes the journal cache.
//
// A Refresher walks catalog titles in batches, looks each one up with the
// metric service and stores what it finds in the cache, so that replies to
// chat messages are served without waiting on the service. It can walk the
// whole catalog, or only the titles already cached to bring their
// CiteScores up to date.
//
// This package supports batch processing, concurrent lookups on an ants
// worker pool, and progress reporting.
package refresh
