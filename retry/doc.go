// Package retry runs operations against remote services with exponential backoff.
//
// Errors wrapped with Permanent stop the loop immediately; everything else
// is retried until the attempt budget or the context runs out.
package retry
