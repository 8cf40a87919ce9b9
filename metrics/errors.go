package metrics

import "errors"

var (
	// ErrLookupFailed indicates the metric service rejected or failed a lookup.
	ErrLookupFailed = errors.New("journal lookup failed")

	// ErrMalformedResponse indicates the metric service returned an unreadable body.
	ErrMalformedResponse = errors.New("malformed metric response")

	// ErrAPIKeyRequired is returned when no API key is configured.
	ErrAPIKeyRequired = errors.New("metrics config: APIKey is required")

	// ErrInvalidBaseURL is returned when BaseURL is empty or not absolute.
	ErrInvalidBaseURL = errors.New("metrics config: BaseURL must be an absolute URL")
)
