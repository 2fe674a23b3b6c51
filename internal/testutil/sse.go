// Package testutil provides helpers shared by tests across packages.
package testutil

import (
	"fmt"
	"net/http"
	"testing"
)

// SSEEvent is a single Server-Sent Event to serve from a fake stream
// endpoint.
type SSEEvent struct {
	Type string // event: value; empty means a bare data line
	Data string // data: value
}

// WriteSSE writes events to w in wire format and flushes after each
// event, so clients reading incrementally see them one at a time.
func WriteSSE(t *testing.T, w http.ResponseWriter, events []SSEEvent) {
	t.Helper()

	flusher, ok := w.(http.Flusher)
	if !ok {
		t.Fatal("response writer does not support flushing")
	}
	for _, ev := range events {
		if ev.Type != "" {
			fmt.Fprintf(w, "event: %s\n", ev.Type)
		}
		fmt.Fprintf(w, "data: %s\n\n", ev.Data)
		flusher.Flush()
	}
}

// SSEHandler returns a handler that serves the given events followed by
// the terminal [DONE] marker.
func SSEHandler(t *testing.T, events []SSEEvent) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		WriteSSE(t, w, events)
		fmt.Fprint(w, "data: [DONE]\n\n")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
