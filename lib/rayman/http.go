package rayman

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

func RequestWithRay(r *http.Request) *http.Request {
	return r.WithContext(ContextWithRay(r.Context()))
}

func FromRequest(r *http.Request) (ID, bool) {
	return FromContext(r.Context())
}

func RequestLogger(r *http.Request) logrus.FieldLogger {
	return ContextLogger(r.Context())
}

// Handler assigns a ray to every request before passing it on.
func Handler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, RequestWithRay(r))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(p)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// LoggingHandler binds a logger carrying the ray and path to every request
// and logs each response's status once h is done with it.
func LoggingHandler(h http.Handler, logger logrus.FieldLogger) http.Handler {
	return Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rid, _ := FromContext(ctx)
		rayedLogger := logger.WithFields(logrus.Fields{
			"ray":  rid,
			"path": r.URL.Path,
		})
		r = r.WithContext(contextWithLogger(ctx, rayedLogger))

		sw := &statusWriter{ResponseWriter: w}
		h.ServeHTTP(sw, r)
		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		rayedLogger.WithFields(logrus.Fields{
			"method": r.Method,
			"remote": r.RemoteAddr,
			"status": sw.status,
		}).Info("served")
	}))
}
