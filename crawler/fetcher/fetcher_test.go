package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func serverMock() *httptest.Server {
	handler := http.NewServeMux()
	handler.HandleFunc("/foo/bar", resourceMock)
	handler.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	return httptest.NewServer(handler)
}

func resourceMock(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(`<html><head><title>Sample</title></head><body><p>hello</p></body></html>`))
}

func TestFetcherFetchSuccess(t *testing.T) {
	server := serverMock()
	defer server.Close()

	f := New("test-agent", 10*time.Second, 4)
	body, status, err := f.Fetch(context.Background(), fmt.Sprintf("%s/foo/bar", server.URL))
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("Fetch failed: expected status 200 got %d", status)
	}
	if body == "" {
		t.Errorf("Fetch failed: expected non-empty body")
	}
}

func TestFetcherFetchNotFound(t *testing.T) {
	server := serverMock()
	defer server.Close()

	f := New("test-agent", 10*time.Second, 4)
	_, status, err := f.Fetch(context.Background(), fmt.Sprintf("%s/missing", server.URL))
	if err != nil {
		t.Fatalf("Fetch failed: unexpected error %v", err)
	}
	if status != http.StatusNotFound {
		t.Errorf("Fetch failed: expected status 404 got %d", status)
	}
}

func TestFetcherFetchNetworkError(t *testing.T) {
	f := New("test-agent", 2*time.Second, 4)
	_, _, err := f.Fetch(context.Background(), "http://127.0.0.1:1")
	if err == nil {
		t.Errorf("Fetch failed: expected a network error, got nil")
	}
}
