package messaging

import "context"

// Sender delivers text messages.
// Implementations must be thread-safe for concurrent use.
type Sender interface {
	// SendText sends body to the recipient as a single message.
	// The caller is responsible for keeping body within the platform limit.
	SendText(ctx context.Context, to, body string) error
}
