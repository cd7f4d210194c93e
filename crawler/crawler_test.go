package crawler

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func countLines(path string, lines *int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			*lines++
		}
	}
	return scanner.Err()
}

// linearChainServer serves A->B->C->D, each page linking only to the
// next, mirroring the BFS-order end-to-end scenario.
func linearChainServer() *httptest.Server {
	mux := http.NewServeMux()
	pages := map[string]string{
		"/a": `<html><body><p>a</p><a href="/b">b</a></body></html>`,
		"/b": `<html><body><p>b</p><a href="/c">c</a></body></html>`,
		"/c": `<html><body><p>c</p><a href="/d">d</a></body></html>`,
		"/d": `<html><body><p>d</p></body></html>`,
	}
	for path, body := range pages {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
	}
	return httptest.NewServer(mux)
}

func TestCrawlRespectsMaxTotalURLs(t *testing.T) {
	server := linearChainServer()
	defer server.Close()

	dir := t.TempDir()
	c, err := New(
		WithOutputDir(dir),
		WithMaxTotalURLs(3),
		WithMaxGlobalWorkers(2),
		WithSaveChunkSize(1),
		WithDelayBetweenRequests(0),
		WithRequestTimeout(5*time.Second),
		WithMaxRetries(1),
		WithRetryBackoff(10*time.Millisecond),
		WithRespectRobots(false),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	emitted, err := c.Crawl(context.Background(), server.URL+"/a")
	if err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}
	if emitted != 3 {
		t.Errorf("Crawl failed: expected 3 emissions got %d", emitted)
	}

	var lines int
	err = countLines(filepath.Join(dir, "scraped.ndjson"), &lines)
	if err != nil {
		t.Fatalf("reading scraped.ndjson failed: %v", err)
	}
	if lines != 3 {
		t.Errorf("Crawl failed: expected 3 lines in scraped.ndjson got %d", lines)
	}
}

func TestCrawlRobotsDisallowYieldsZeroEmissions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>a</p></body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := t.TempDir()
	c, err := New(
		WithOutputDir(dir),
		WithMaxTotalURLs(10),
		WithMaxGlobalWorkers(2),
		WithDelayBetweenRequests(0),
		WithRequestTimeout(5*time.Second),
		WithMaxRetries(1),
		WithRetryBackoff(10*time.Millisecond),
		WithRespectRobots(true),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	emitted, err := c.Crawl(context.Background(), server.URL+"/a")
	if err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}
	if emitted != 0 {
		t.Errorf("Crawl failed: expected 0 emissions with robots disallow, got %d", emitted)
	}
}

func TestCrawlRobotsIgnoredWhenDisabled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>a</p></body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := t.TempDir()
	c, err := New(
		WithOutputDir(dir),
		WithMaxTotalURLs(10),
		WithMaxGlobalWorkers(2),
		WithDelayBetweenRequests(0),
		WithRequestTimeout(5*time.Second),
		WithMaxRetries(1),
		WithRetryBackoff(10*time.Millisecond),
		WithRespectRobots(false),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	emitted, err := c.Crawl(context.Background(), server.URL+"/a")
	if err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}
	if emitted != 1 {
		t.Errorf("Crawl failed: expected 1 emission with robots disabled, got %d", emitted)
	}
}

func TestCrawlPerHostAdmissionLimitsConcurrency(t *testing.T) {
	var active, maxActive int32
	observe := func() {
		n := atomic.AddInt32(&active, 1)
		for {
			old := atomic.LoadInt32(&maxActive)
			if n <= old || atomic.CompareAndSwapInt32(&maxActive, old, n) {
				break
			}
		}
	}

	mux := http.NewServeMux()
	for i := 0; i < 10; i++ {
		path := fmt.Sprintf("/page%d", i)
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			observe()
			defer atomic.AddInt32(&active, -1)
			time.Sleep(10 * time.Millisecond)
			_, _ = w.Write([]byte(`<html><body><p>x</p></body></html>`))
		})
	}
	server := httptest.NewServer(mux)
	defer server.Close()

	seeds := make([]string, 0, 10)
	mux.HandleFunc("/index", func(w http.ResponseWriter, r *http.Request) {
		var sb strings.Builder
		sb.WriteString("<html><body>")
		for i := 0; i < 10; i++ {
			sb.WriteString(fmt.Sprintf(`<a href="/page%d">p</a>`, i))
		}
		sb.WriteString("</body></html>")
		_, _ = w.Write([]byte(sb.String()))
	})
	seeds = append(seeds, server.URL+"/index")

	dir := t.TempDir()
	c, err := New(
		WithOutputDir(dir),
		WithMaxTotalURLs(11),
		WithMaxGlobalWorkers(8),
		WithMaxConcurrentPerHost(1),
		WithDelayBetweenRequests(0),
		WithRequestTimeout(5*time.Second),
		WithMaxRetries(1),
		WithRetryBackoff(10*time.Millisecond),
		WithRespectRobots(false),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	if _, err := c.Crawl(context.Background(), seeds...); err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}
	if maxActive > 1 {
		t.Errorf("Crawl failed: observed concurrency %d to a single host, expected <= 1", maxActive)
	}
}
