package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultTimerSeconds = 25 * 60
	maxTimerSeconds     = 4 * 60 * 60
)

// handleTimer streams a countdown as server-sent events, one tick per
// second, finishing with a "done" event. Clients drive the focus timer
// off this stream so the remaining time survives page reloads poorly
// but never drifts from the server clock.
func (s *Server) handleTimer(w http.ResponseWriter, r *http.Request) {
	seconds := defaultTimerSeconds
	if raw := r.URL.Query().Get("seconds"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxTimerSeconds {
			writeError(w, http.StatusBadRequest, "seconds must be a positive integer")
			return
		}
		seconds = n
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	remaining := seconds
	fmt.Fprintf(w, "event: tick\ndata: %d\n\n", remaining)
	flusher.Flush()

	for remaining > 0 {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			remaining--
			fmt.Fprintf(w, "event: tick\ndata: %d\n\n", remaining)
			flusher.Flush()
		}
	}

	fmt.Fprint(w, "event: done\ndata: 0\n\n")
	flusher.Flush()
}
