package whatsapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/poiesic/citescout/core"
)

// ErrInvalidPayload is returned when a webhook body is not valid JSON.
var ErrInvalidPayload = errors.New("invalid webhook payload")

// textMessage is the outbound request body for a text message.
type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

func newTextMessage(to, body string) textMessage {
	return textMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	}
}

// notification is the webhook body sent for account events.
type notification struct {
	Object  string `json:"object"`
	Entries []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Messages []inboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	Timestamp string    `json:"timestamp"`
	Type      string    `json:"type"`
	Text      *textBody `json:"text"`
}

// ParseNotification extracts the text messages from a webhook body, in
// delivery order across every entry and change. Status updates and non-text
// messages are ignored. A body with no text messages yields an empty slice.
func ParseNotification(body []byte) ([]*core.InboundMessage, error) {
	var n notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	messages := []*core.InboundMessage{}
	for _, entry := range n.Entries {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				if m.Type != "text" || m.Text == nil || m.From == "" {
					continue
				}
				messages = append(messages, &core.InboundMessage{
					ID:        m.ID,
					From:      m.From,
					Body:      m.Text.Body,
					Timestamp: parseTimestamp(m.Timestamp),
				})
			}
		}
	}
	return messages, nil
}

// parseTimestamp converts unix seconds; the zero time on failure.
func parseTimestamp(value string) time.Time {
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}
