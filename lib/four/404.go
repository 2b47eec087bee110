// Package four replaces the bodies of 404 responses with a page of the
// caller's choosing.
package four

import (
	"net/http"
)

type notFoundWriter struct {
	http.ResponseWriter
	statusCode int
	tripped    bool
}

func (w *notFoundWriter) WriteHeader(status int) {
	w.statusCode = status
	if status == http.StatusNotFound {
		w.tripped = true
		h := w.ResponseWriter.Header()
		h.Del("Content-Length")
		h.Set("Content-Type", "text/html; charset=utf-8")
	}
	w.ResponseWriter.WriteHeader(status)
}

// Anything written after a 404 is dropped; the error handler supplies the
// body instead.
func (w *notFoundWriter) Write(p []byte) (int, error) {
	if w.statusCode == 0 {
		w.WriteHeader(http.StatusOK)
	}
	if w.tripped {
		return len(p), nil
	}
	return w.ResponseWriter.Write(p)
}

func (w *notFoundWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

type notFoundHandler struct {
	http.Handler
	errorHandler http.Handler
}

func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writer := &notFoundWriter{ResponseWriter: w}
	h.Handler.ServeHTTP(writer, r)
	if writer.tripped {
		h.errorHandler.ServeHTTP(w, r)
	}
}

// WrapHandler returns a new http.Handler that invokes errorHandler when orig
// responds with a 404. The status has already been sent by then, so
// errorHandler should only write a body.
func WrapHandler(orig http.Handler, errorHandler http.Handler) http.Handler {
	return &notFoundHandler{orig, errorHandler}
}
