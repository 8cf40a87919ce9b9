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


package elsevier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/poiesic/citescout/core"
	"github.com/poiesic/citescout/metrics"
	"github.com/poiesic/citescout/retry"
)

const (
	serialTitlePath = "/content/serial/title"
	maxResponseSize = 4 << 20
)

// Client implements metrics.JournalLookup using the Elsevier Serial Title API.
type Client struct {
	config     *metrics.Config
	httpClient *http.Client
	logger     *slog.Logger
}

var _ metrics.JournalLookup = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
// Default is a client with the configured Timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "elsevier")
	}
}

// NewClient creates a lookup client.
// The config is validated and normalized before use.
//
// Returns metrics.JournalLookup interface (not *Client) so callers stay
// decoupled from the Elsevier wire format.
func NewClient(config *metrics.Config, opts ...Option) (metrics.JournalLookup, error) {
	return newClient(config, opts...)
}

// newClient returns the concrete type for use within the package.
func newClient(config *metrics.Config, opts ...Option) (*Client, error) {
	if config == nil {
		config = metrics.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     slog.Default().With("component", "elsevier"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LookupJournal fetches the current CiteScore and source link for title.
func (c *Client) LookupJournal(ctx context.Context, title string) (*core.Journal, error) {
	var journal *core.Journal
	err := retry.WithBackoff(ctx, func(ctx context.Context) error {
		var err error
		journal, err = c.lookupOnce(ctx, title)
		return err
	}, c.config.MaxRetries+1, c.config.RetryDelay)
	if err != nil {
		c.logger.Warn("lookup failed", "title", title, "err", err)
		return nil, fmt.Errorf("looking up %q: %w", title, err)
	}

	if journal == nil {
		c.logger.Debug("no entry for title", "title", title)
	}
	return journal, nil
}

// lookupOnce performs a single request. Errors that retrying cannot fix are
// wrapped with retry.Permanent.
func (c *Client) lookupOnce(ctx context.Context, title string) (*core.Journal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(title), nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-ELS-APIKey", c.config.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}

	c.logger.Debug("lookup response", "title", title, "status", resp.StatusCode, "elapsed", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", metrics.ErrLookupFailed, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, retry.Permanent(fmt.Errorf("%w: status %d", metrics.ErrLookupFailed, resp.StatusCode))
	}

	var parsed serialTitleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, retry.Permanent(fmt.Errorf("%w: %w", metrics.ErrMalformedResponse, err))
	}

	entries := parsed.Metadata.Entries
	if len(entries) == 0 {
		return nil, nil
	}

	journal := entries[0].toJournal(title)
	journal.FetchedAt = time.Now().UTC()
	return journal, nil
}

func (c *Client) requestURL(title string) string {
	query := url.Values{}
	query.Set("title", title)
	query.Set("view", c.config.View)
	return c.config.BaseURL + serialTitlePath + "?" + query.Encode()
}
