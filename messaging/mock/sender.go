// Package mock provides a test double for messaging.Sender.
package mock

import (
	"context"
	"sync"

	"github.com/poiesic/citescout/messaging"
)

// Message is one recorded delivery.
type Message struct {
	To   string
	Body string
}

// MockSender is a test double for messaging.Sender.
// It records every message that was sent successfully.
type MockSender struct {
	// SendTextFunc is called by SendText if set.
	// A non-nil error means the message is not recorded.
	SendTextFunc func(ctx context.Context, to, body string) error

	mu       sync.Mutex
	messages []Message
	calls    int
}

var _ messaging.Sender = (*MockSender)(nil)

// NewMockSender creates a sender that accepts every message.
func NewMockSender() *MockSender {
	return &MockSender{}
}

// SendText records the message.
func (m *MockSender) SendText(ctx context.Context, to, body string) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.SendTextFunc != nil {
		if err := m.SendTextFunc(ctx, to, body); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, Message{To: to, Body: body})
	return nil
}

// Messages returns the recorded messages in send order.
func (m *MockSender) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages...)
}

// Bodies returns the bodies of the messages sent to recipient.
func (m *MockSender) Bodies(to string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var bodies []string
	for _, msg := range m.messages {
		if msg.To == to {
			bodies = append(bodies, msg.Body)
		}
	}
	return bodies
}

// CallCount returns the number of SendText calls, including failed ones.
func (m *MockSender) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
