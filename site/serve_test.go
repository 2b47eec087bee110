package site

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPreviewHandler(t *testing.T) {
	s := newTestSite(t, nil)
	if err := s.gen.Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	h := s.gen.PreviewHandler()

	get := func(t *testing.T, method, path string) (int, string) {
		t.Helper()
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
		resp := rr.Result()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	t.Run("Page", func(t *testing.T) {
		status, body := get(t, "GET", "/2018/second-post.html")
		if status != http.StatusOK || !strings.Contains(body, "<h1>Second Post</h1>") {
			t.Fatalf("unexpected response: %d\n%s", status, body)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		status, body := get(t, "GET", "/nope.html")
		if status != http.StatusNotFound {
			t.Fatalf("unexpected response status: %d", status)
		}
		if !strings.Contains(body, "<h1>/nope.html was not found.</h1>") {
			t.Fatalf("unexpected not found page:\n%s", body)
		}
	})

	t.Run("Compressed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/first-post.html", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		h.ServeHTTP(rr, req)
		if enc := rr.Result().Header.Get("Content-Encoding"); enc != "gzip" {
			t.Fatalf("unexpected content encoding %q", enc)
		}
	})

	t.Run("Method", func(t *testing.T) {
		if status, _ := get(t, "POST", "/index.html"); status != http.StatusMethodNotAllowed {
			t.Fatalf("unexpected response status: %d", status)
		}
	})

	var served bool
	for _, e := range s.hook.AllEntries() {
		if e.Message == "served" && e.Data["ray"] != nil {
			served = true
		}
	}
	if !served {
		t.Error("requests were not logged")
	}
}

func TestPreviewHandlerWithoutNotFoundTemplate(t *testing.T) {
	s := newTestSite(t, nil)
	if err := os.Remove(filepath.Join(s.cfg.TemplatesDirectory, NotFoundTemplate)); err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	s.gen.PreviewHandler().ServeHTTP(rr, httptest.NewRequest("GET", "/nope.html", nil))
	if rr.Code != http.StatusNotFound || rr.Body.String() != "404 page not found\n" {
		t.Fatalf("unexpected response: %d %q", rr.Code, rr.Body.String())
	}
}
