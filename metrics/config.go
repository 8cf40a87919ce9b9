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


package metrics

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config holds configuration for the journal metric service.
type Config struct {
	// BaseURL is the API root, without the /content path.
	// Example: "https://api.elsevier.com"
	BaseURL string

	// APIKey authenticates requests. Required.
	APIKey string

	// View selects the response detail level.
	// Default: "STANDARD"
	View string

	// Timeout bounds a single HTTP request.
	// Default: 10s
	Timeout time.Duration

	// MaxRetries is how many times a throttled or failed request is retried.
	// Default: 3
	MaxRetries int

	// RetryDelay is the base delay between retries (doubles on each retry).
	// Default: 500ms
	RetryDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the API root.
func WithBaseURL(baseURL string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithView sets the response view.
func WithView(view string) ConfigOption {
	return func(c *Config) {
		c.View = view
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRetries sets the retry budget and base delay.
func WithRetries(maxRetries int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// DefaultConfig returns a Config pointing at the public Elsevier API.
// The API key is left empty and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.elsevier.com",
		View:       "STANDARD",
		Timeout:    10 * time.Second,
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//   cfg := NewConfig(
//       WithAPIKey(os.Getenv("ELSEVIER_API_KEY")),
//       WithRetries(5, time.Second),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// Trailing slashes are removed from BaseURL and the view is upper-cased.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.View = strings.ToUpper(strings.TrimSpace(c.View))
	if c.View == "" {
		c.View = "STANDARD"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidBaseURL
	}
	if c.APIKey == "" {
		return ErrAPIKeyRequired
	}
	if c.Timeout <= 0 {
		return errors.New("metrics config: Timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("metrics config: MaxRetries must not be negative")
	}
	if c.RetryDelay < 0 {
		return errors.New("metrics config: RetryDelay must not be negative")
	}
	return nil
}
