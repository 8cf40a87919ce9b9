package webhook

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/citescout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testVerifyToken = "verify-me"
	testAppSecret   = "app-secret"
)

type recordingDispatcher struct {
	mu       sync.Mutex
	messages []*core.InboundMessage
	err      error
}

func (d *recordingDispatcher) Submit(msg *core.InboundMessage) error {
	if err := core.ValidateMessage(msg); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.messages = append(d.messages, msg)
	return nil
}

func (d *recordingDispatcher) received() []*core.InboundMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*core.InboundMessage(nil), d.messages...)
}

func textNotification(id, from, body string) string {
	return `{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{"messages":[` +
		`{"from":"` + from + `","id":"` + id + `","timestamp":"1700000000","type":"text","text":{"body":"` + body + `"}}` +
		`]}}]}]}`
}

func newTestHandler(t *testing.T, opts ...Option) (*Handler, *recordingDispatcher) {
	t.Helper()
	dispatcher := &recordingDispatcher{}
	handler, err := NewHandler(testVerifyToken, dispatcher, opts...)
	require.NoError(t, err)
	return handler, dispatcher
}

func serve(handler *Handler, req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, req)
	return recorder
}

func TestNewHandler_Required(t *testing.T) {
	_, err := NewHandler("", &recordingDispatcher{})
	assert.ErrorIs(t, err, ErrVerifyTokenRequired)

	_, err = NewHandler(testVerifyToken, nil)
	assert.ErrorIs(t, err, ErrDispatcherRequired)
}

func TestVerify(t *testing.T) {
	handler, _ := newTestHandler(t)

	tests := []struct {
		name   string
		query  string
		status int
		body   string
	}{
		{"valid", "hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=1158201444", http.StatusOK, "1158201444"},
		{"wrong token", "hub.mode=subscribe&hub.verify_token=nope&hub.challenge=1", http.StatusForbidden, ""},
		{"wrong mode", "hub.mode=unsubscribe&hub.verify_token=verify-me&hub.challenge=1", http.StatusForbidden, ""},
		{"missing token", "hub.mode=subscribe&hub.challenge=1", http.StatusBadRequest, ""},
		{"missing everything", "", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/webhook?"+tt.query, nil))
			assert.Equal(t, tt.status, recorder.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, recorder.Body.String())
			}
		})
	}
}

func TestReceive_DispatchesTextMessages(t *testing.T) {
	handler, dispatcher := newTestHandler(t)

	body := textNotification("wamid.1", "15551234567", "machine learning")
	recorder := serve(handler, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, recorder.Code)

	received := dispatcher.received()
	require.Len(t, received, 1)
	assert.Equal(t, "15551234567", received[0].From)
	assert.Equal(t, "machine learning", received[0].Body)
}

func TestReceive_IgnoresDuplicates(t *testing.T) {
	handler, dispatcher := newTestHandler(t)

	body := textNotification("wamid.dup", "1555", "cell")
	for range 3 {
		recorder := serve(handler, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
		assert.Equal(t, http.StatusOK, recorder.Code)
	}
	assert.Len(t, dispatcher.received(), 1)
}

func TestReceive_StatusOnlyNotification(t *testing.T) {
	handler, dispatcher := newTestHandler(t)

	body := `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"statuses":[{"id":"x","status":"read"}]}}]}]}`
	recorder := serve(handler, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, dispatcher.received())
}

func TestReceive_BadRequests(t *testing.T) {
	handler, _ := newTestHandler(t, WithMaxBodySize(64))

	t.Run("empty body", func(t *testing.T) {
		recorder := serve(handler, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("")))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		recorder := serve(handler, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json")))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("too large", func(t *testing.T) {
		body := strings.Repeat("x", 65)
		recorder := serve(handler, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, recorder.Code)
	})
}

func TestReceive_InvalidMessageSkipped(t *testing.T) {
	handler, dispatcher := newTestHandler(t)

	body := textNotification("wamid.blank", "1555", "   ")
	recorder := serve(handler, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, dispatcher.received())
}

func TestReceive_DispatchFailureAllowsRedelivery(t *testing.T) {
	handler, dispatcher := newTestHandler(t)
	dispatcher.err = errors.New("queue full")

	body := textNotification("wamid.busy", "1555", "cell")
	recorder := serve(handler, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	dispatcher.mu.Lock()
	dispatcher.err = nil
	dispatcher.mu.Unlock()

	recorder = serve(handler, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, dispatcher.received(), 1)
}

func TestReceive_Signature(t *testing.T) {
	handler, dispatcher := newTestHandler(t, WithAppSecret(testAppSecret))
	body := textNotification("wamid.signed", "1555", "cell")

	t.Run("missing", func(t *testing.T) {
		recorder := serve(handler, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("wrong", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		req.Header.Set(SignatureHeader, Sign([]byte("other"), []byte(body)))
		recorder := serve(handler, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		req.Header.Set(SignatureHeader, Sign([]byte(testAppSecret), []byte(body)))
		recorder := serve(handler, req)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	assert.Len(t, dispatcher.received(), 1)
}

func TestRoutes(t *testing.T) {
	handler, _ := newTestHandler(t)

	recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ok", recorder.Body.String())

	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch} {
		recorder := serve(handler, httptest.NewRequest(method, "/webhook", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code, method)
	}
}

func TestSeenSet_Expiry(t *testing.T) {
	seen := newSeenSet(time.Minute)
	now := time.Now()
	seen.now = func() time.Time { return now }

	assert.False(t, seen.checkAndAdd("a"))
	assert.True(t, seen.checkAndAdd("a"))

	now = now.Add(2 * time.Minute)
	assert.False(t, seen.checkAndAdd("a"), "expired IDs are processed again")
}

func TestSeenSet_PrunesOncePerWindow(t *testing.T) {
	seen := newSeenSet(time.Minute)
	start := time.Now()
	now := start
	seen.now = func() time.Time { return now }
	at := func(d time.Duration) { now = start.Add(d) }

	assert.False(t, seen.checkAndAdd("x")) // first sweep
	at(10 * time.Second)
	assert.False(t, seen.checkAndAdd("a"))
	at(30 * time.Second)
	assert.False(t, seen.checkAndAdd("b"))
	at(65 * time.Second)
	assert.False(t, seen.checkAndAdd("c")) // sweeps "x"
	assert.Len(t, seen.ids, 3)

	// "a" has expired but the next sweep is not due
	at(75 * time.Second)
	assert.False(t, seen.checkAndAdd("a"), "expired IDs are processed again before the sweep")
	assert.True(t, seen.checkAndAdd("b"))
	assert.Len(t, seen.ids, 3)

	at(200 * time.Second)
	assert.False(t, seen.checkAndAdd("d"))
	assert.Equal(t, map[string]time.Time{"d": now}, seen.ids)
}
