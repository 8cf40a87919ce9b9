// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poiesic/citescout/messaging"
	"github.com/poiesic/citescout/retry"
)

var (
	// ErrAPIURLRequired is returned when no messages endpoint is configured.
	ErrAPIURLRequired = errors.New("whatsapp config: APIURL must be an absolute URL")

	// ErrTokenRequired is returned when no access token is configured.
	ErrTokenRequired = errors.New("whatsapp config: Token is required")
)

// Config holds configuration for the Cloud API sender.
type Config struct {
	// APIURL is the messages endpoint of the sending phone number.
	// Example: "https://graph.facebook.com/v17.0/123456789/messages"
	APIURL string

	// Token is the bearer access token.
	Token string

	// Timeout bounds a single HTTP request.
	// Default: 10s
	Timeout time.Duration

	// MaxRetries is how many times a throttled or failed send is retried.
	// Default: 2
	MaxRetries int

	// RetryDelay is the base delay between retries.
	// Default: 500ms
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with default timeouts and no endpoint.
func DefaultConfig() *Config {
	return &Config{
		Timeout:    10 * time.Second,
		MaxRetries: 2,
		RetryDelay: 500 * time.Millisecond,
	}
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	c.APIURL = strings.TrimSpace(c.APIURL)
	c.Token = strings.TrimSpace(c.Token)

	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrAPIURLRequired
	}
	if c.Token == "" {
		return ErrTokenRequired
	}
	if c.Timeout <= 0 {
		return errors.New("whatsapp config: Timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("whatsapp config: MaxRetries must not be negative")
	}
	return nil
}

// Sender implements messaging.Sender using the WhatsApp Cloud API.
type Sender struct {
	config     *Config
	httpClient *http.Client
	logger     *slog.Logger
}

var _ messaging.Sender = (*Sender)(nil)

// Option configures a Sender.
type Option func(*Sender)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Sender) {
		if httpClient != nil {
			s.httpClient = httpClient
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sender) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "whatsapp")
	}
}

// NewSender creates a sender. The config is validated before use.
func NewSender(config *Config, opts ...Option) (*Sender, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Sender{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     slog.Default().With("component", "whatsapp"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SendText sends body to the recipient phone number.
func (s *Sender) SendText(ctx context.Context, to, body string) error {
	if to == "" {
		return messaging.ErrRecipientRequired
	}
	if body == "" {
		return messaging.ErrBodyRequired
	}

	payload, err := json.Marshal(newTextMessage(to, body))
	if err != nil {
		return err
	}

	err = retry.WithBackoff(ctx, func(ctx context.Context) error {
		return s.post(ctx, payload)
	}, s.config.MaxRetries+1, s.config.RetryDelay)
	if err != nil {
		s.logger.Error("send failed", "to", to, "err", err)
		return err
	}

	s.logger.Debug("message sent", "to", to, "length", len(body))
	return nil
}

func (s *Sender) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIURL, bytes.NewReader(payload))
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", messaging.ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	err = fmt.Errorf("%w: status %d: %s", messaging.ErrSendFailed, resp.StatusCode, strings.TrimSpace(string(detail)))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return err
	}
	return retry.Permanent(err)
}
