package four

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(h http.Handler, path string) *http.Response {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
	return rr.Result()
}

func TestWrapHandler(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/found", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("here"))
	})
	h := WrapHandler(mux, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<h1>no "+r.URL.Path+"</h1>")
	}))

	t.Run("Found", func(t *testing.T) {
		resp := serve(h, "/found")
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK || string(body) != "here" {
			t.Fatalf("unexpected response: %d %q", resp.StatusCode, body)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		resp := serve(h, "/lost")
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("unexpected response status: %d", resp.StatusCode)
		}
		if string(body) != "<h1>no /lost</h1>" {
			t.Fatalf("unexpected response body: %q", body)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
			t.Fatalf("unexpected content type: %q", ct)
		}
	})
}
