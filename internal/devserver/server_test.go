package devserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{
			name:     "x-forwarded-for single",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.1"},
			remote:   "10.0.0.1:1234",
			expected: "203.0.113.1",
		},
		{
			name:     "x-forwarded-for list takes first",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.1, 198.51.100.1"},
			remote:   "10.0.0.1:1234",
			expected: "203.0.113.1",
		},
		{
			name:     "x-real-ip",
			headers:  map[string]string{"X-Real-IP": "203.0.113.9"},
			remote:   "10.0.0.1:1234",
			expected: "203.0.113.9",
		},
		{
			name:     "remote addr strips port",
			remote:   "127.0.0.1:52412",
			expected: "127.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, ExtractClientIP(r))
		})
	}
}

func TestRequestLogging_PassesThrough(t *testing.T) {
	handler := requestLogging(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brew", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestReloadHub_Broadcast(t *testing.T) {
	hub := newReloadHub()

	ch, cancel := hub.subscribe()
	defer cancel()

	hub.broadcast()

	select {
	case _, open := <-ch:
		assert.True(t, open)
	case <-time.After(time.Second):
		t.Fatal("expected a reload pulse")
	}
}

func TestReloadHub_CloseDisconnectsListeners(t *testing.T) {
	hub := newReloadHub()

	ch, cancel := hub.subscribe()
	defer cancel()

	hub.close()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("expected the listener channel to close")
	}

	// Subscribing after close yields an already-closed channel.
	late, lateCancel := hub.subscribe()
	defer lateCancel()
	_, open := <-late
	assert.False(t, open)
}

func TestReloadHub_Run(t *testing.T) {
	hub := newReloadHub()
	rebuilt := make(chan struct{}, 1)

	done := make(chan struct{})
	go func() {
		hub.run(rebuilt)
		close(done)
	}()

	ch, cancel := hub.subscribe()
	defer cancel()

	rebuilt <- struct{}{}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a reload pulse")
	}

	close(rebuilt)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected run to return after the rebuilt channel closed")
	}
}

func TestServeSSE_Headers(t *testing.T) {
	hub := newReloadHub()

	srv := httptest.NewServer(http.HandlerFunc(hub.serveSSE))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Broadcast until the stream delivers; the handler may still be
	// subscribing when the response headers arrive.
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hub.broadcast()
			}
		}
	}()
	defer close(stop)

	buf := make([]byte, 64)
	n, err := resp.Body.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "data: reload")
}
