package server

import (
	"net/http"
	"time"
)

// timeoutBody is the canned payload http.TimeoutHandler emits when a
// handler overruns the write timeout. It matches writeError's shape.
const timeoutBody = `{"error":"request timed out"}`

// withTimeout bounds a handler's run time by the configured write
// timeout, answering 503 with a JSON body when it is exceeded.
// http.TimeoutHandler writes its message without a content type, so
// the response writer is wrapped to supply one. The test delay is
// read per request, inside the timed region, so tests can arm it on
// a constructed server.
func (s *Server) withTimeout(h http.HandlerFunc) http.Handler {
	timed := http.TimeoutHandler(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if d := s.handlerDelay; d > 0 {
				time.Sleep(d)
			}
			h(w, r)
		},
	), s.cfg.WriteTimeout, timeoutBody)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timed.ServeHTTP(&timeoutJSONWriter{ResponseWriter: w}, r)
	})
}

// timeoutJSONWriter stamps application/json onto the timeout
// handler's 503 and leaves every other response alone.
type timeoutJSONWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *timeoutJSONWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	if code == http.StatusServiceUnavailable &&
		w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *timeoutJSONWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}
