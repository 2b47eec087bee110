package rayman

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestContextWithRay(t *testing.T) {
	ctx := context.Background()
	if _, ok := FromContext(ctx); ok {
		t.Fatal("bare context has a ray")
	}

	a, _ := FromContext(ContextWithRay(ctx))
	b, _ := FromContext(ContextWithRay(ctx))
	if a == "" || a == b {
		t.Fatalf("rays not unique: %q %q", a, b)
	}
}

func TestContextLoggerDefault(t *testing.T) {
	// must not panic or print
	ContextLogger(context.Background()).WithField("k", "v").Error("dropped")
}

func TestLoggingHandler(t *testing.T) {
	logger, hook := test.NewNullLogger()

	var seen ID
	h := LoggingHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromRequest(r)
		RequestLogger(r).Info("inside")
		http.NotFound(w, r)
	}), logger)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/missing.html", nil))

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Data["ray"] != seen || e.Data["path"] != "/missing.html" {
			t.Errorf("entry %q missing ray fields: %v", e.Message, e.Data)
		}
	}
	last := hook.LastEntry()
	if last.Level != logrus.InfoLevel || last.Data["status"] != http.StatusNotFound {
		t.Errorf("unexpected final entry: %v", last.Data)
	}
}
