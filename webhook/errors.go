package webhook

import "errors"

var (
	// ErrVerifyTokenRequired is returned when no verify token is configured.
	ErrVerifyTokenRequired = errors.New("webhook verify token is required")

	// ErrDispatcherRequired is returned when no dispatcher is provided.
	ErrDispatcherRequired = errors.New("webhook dispatcher is required")

	// ErrSignatureMissing indicates a signed request had no signature header.
	ErrSignatureMissing = errors.New("webhook signature is missing")

	// ErrSignatureMalformed indicates the signature header is not hex.
	ErrSignatureMalformed = errors.New("webhook signature is malformed")

	// ErrSignatureMismatch indicates the signature does not match the body.
	ErrSignatureMismatch = errors.New("webhook signature mismatch")
)
