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


package webhook

import (
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/citescout/core"
	"github.com/poiesic/citescout/messaging/whatsapp"
)

// DefaultMaxBodySize is the largest notification body accepted.
const DefaultMaxBodySize = 1 << 20

// Dispatcher accepts inbound messages for asynchronous handling.
// relay.Pipeline satisfies this interface.
type Dispatcher interface {
	Submit(msg *core.InboundMessage) error
}

// Handler serves the webhook endpoints.
type Handler struct {
	verifyToken string
	appSecret   []byte
	dispatcher  Dispatcher
	maxBodySize int64
	seen        *seenSet
	logger      *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithAppSecret requires POST bodies to carry a valid X-Hub-Signature-256
// computed with secret. An empty secret disables verification (the default).
func WithAppSecret(secret string) Option {
	return func(h *Handler) {
		h.appSecret = []byte(secret)
	}
}

// WithMaxBodySize sets the largest accepted body. Default is 1 MiB.
func WithMaxBodySize(size int64) Option {
	return func(h *Handler) {
		if size > 0 {
			h.maxBodySize = size
		}
	}
}

// WithDedupWindow sets how long message IDs are remembered.
// Default is DefaultDedupWindow.
func WithDedupWindow(window time.Duration) Option {
	return func(h *Handler) {
		if window > 0 {
			h.seen = newSeenSet(window)
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
	}
}

// NewHandler creates a webhook handler.
func NewHandler(verifyToken string, dispatcher Dispatcher, opts ...Option) (*Handler, error) {
	if verifyToken == "" {
		return nil, ErrVerifyTokenRequired
	}
	if dispatcher == nil {
		return nil, ErrDispatcherRequired
	}

	h := &Handler{
		verifyToken: verifyToken,
		dispatcher:  dispatcher,
		maxBodySize: DefaultMaxBodySize,
		seen:        newSeenSet(DefaultDedupWindow),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "webhook")
	return h, nil
}

// Routes returns a mux serving the webhook and a health check.
// Unsupported methods on /webhook get 405.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /webhook", h.Verify)
	mux.HandleFunc("POST /webhook", h.Receive)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

// Verify answers the subscription handshake.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode := query.Get("hub.mode")
	token := query.Get("hub.verify_token")
	challenge := query.Get("hub.challenge")

	if mode == "" || token == "" {
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	if mode != "subscribe" || subtle.ConstantTimeCompare([]byte(token), []byte(h.verifyToken)) != 1 {
		h.logger.Warn("webhook verification rejected", "mode", mode, "remote_addr", r.RemoteAddr)
		http.Error(w, "", http.StatusForbidden)
		return
	}

	h.logger.Info("webhook verified")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, challenge)
}

// Receive accepts a notification and dispatches its text messages.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("webhook body too large", "limit", tooLarge.Limit)
			http.Error(w, "", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Error("failed to read webhook body", "err", err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	if len(h.appSecret) > 0 {
		if err := VerifySignature(h.appSecret, body, r.Header.Get(SignatureHeader)); err != nil {
			h.logger.Warn("webhook signature rejected", "err", err, "remote_addr", r.RemoteAddr)
			http.Error(w, "", http.StatusUnauthorized)
			return
		}
	}

	messages, err := whatsapp.ParseNotification(body)
	if err != nil {
		h.logger.Warn("invalid webhook payload", "err", err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	failed := false
	for _, msg := range messages {
		if msg.ID != "" && h.seen.checkAndAdd(msg.ID) {
			h.logger.Debug("duplicate message ignored", "message", msg.ID)
			continue
		}

		if err := h.dispatcher.Submit(msg); err != nil {
			if errors.Is(err, core.ErrInvalidMessage) {
				h.logger.Warn("invalid message ignored", "message", msg.ID, "err", err)
				continue
			}
			h.logger.Error("failed to dispatch message", "message", msg.ID, "from", msg.From, "err", err)
			if msg.ID != "" {
				h.seen.forget(msg.ID)
			}
			failed = true
			continue
		}
		h.logger.Info("message received", "message", msg.ID, "from", msg.From)
	}

	// A non-2xx response makes the platform redeliver
	if failed {
		http.Error(w, "", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
