package devserver

import (
	"net/http"
	"sync"
)

// reloadHub fans rebuild pulses out to every connected reload listener.
type reloadHub struct {
	mu        sync.Mutex
	listeners map[chan struct{}]bool
	closed    bool
}

func newReloadHub() *reloadHub {
	return &reloadHub{listeners: make(map[chan struct{}]bool)}
}

// run broadcasts until the rebuilt channel closes, then disconnects all
// listeners.
func (h *reloadHub) run(rebuilt <-chan struct{}) {
	for range rebuilt {
		h.broadcast()
	}
	h.close()
}

func (h *reloadHub) broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (h *reloadHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.listeners {
		close(ch)
		delete(h.listeners, ch)
	}
}

func (h *reloadHub) subscribe() (chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan struct{}, 1)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.listeners[ch] = true

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.listeners[ch] {
			delete(h.listeners, ch)
		}
	}
}

// serveSSE holds a server-sent events stream open, emitting one reload event
// per rebuild.
func (h *reloadHub) serveSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, cancel := h.subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, open := <-ch:
			if !open {
				return
			}
			if _, err := w.Write([]byte("data: reload\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
