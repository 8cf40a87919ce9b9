package messaging

import "errors"

var (
	// ErrSendFailed indicates the platform rejected or failed a delivery.
	ErrSendFailed = errors.New("message send failed")

	// ErrRecipientRequired is returned when no recipient is given.
	ErrRecipientRequired = errors.New("recipient is required")

	// ErrBodyRequired is returned when the message body is empty.
	ErrBodyRequired = errors.New("message body is required")
)
