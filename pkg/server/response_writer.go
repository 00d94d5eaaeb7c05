package server

import "net/http"

// responseWriter wraps http.ResponseWriter to record the response status and
// guard against duplicate header writes. Middleware uses it to observe the
// status a handler produced without changing response semantics.
type responseWriter struct {
	http.ResponseWriter
	status    int
	committed bool
}

// newResponseWriter wraps w, defaulting the recorded status to 200.
func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records and forwards the status code. Only the first call has
// any effect.
func (rw *responseWriter) WriteHeader(status int) {
	if rw.committed {
		return
	}
	rw.status = status
	rw.committed = true
	rw.ResponseWriter.WriteHeader(status)
}

// Write writes the response body, implicitly committing a 200 status if no
// header has been written yet.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.committed {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Status returns the HTTP status code that was written.
func (rw *responseWriter) Status() int {
	return rw.status
}
