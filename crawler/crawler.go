// Package crawler drives a bounded-quota, polite, concurrent harvest of
// same-host link closures starting from a set of seed URLs.
package crawler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/codepr/webranker/crawler/fetcher"
	"github.com/codepr/webranker/messaging"
)

const (
	defaultMaxTotalURLs         = 1000
	defaultMaxGlobalWorkers     = 50
	defaultSaveChunkSize        = 20
	defaultMaxConcurrentPerHost = 2
	defaultDelayBetweenRequests = time.Second
	defaultRequestTimeout       = 15 * time.Second
	defaultMaxRetries           = 3
	defaultRetryBackoff         = 2 * time.Second
	defaultUserAgent            = "Mozilla/5.0 (compatible; CustomCrawler/1.0)"
)

// Settings enumerates every tunable of a crawl. A crawl is driven to
// completion by a total-emission quota: a worker pool drains a shared
// FIFO queue of discovered URLs until the quota is reached.
type Settings struct {
	// MaxTotalURLs is the quota of successful emissions after which the
	// crawl stops.
	MaxTotalURLs int
	// MaxGlobalWorkers is the number of concurrent workers draining the
	// queue.
	MaxGlobalWorkers int
	// SaveChunkSize is how many scraped documents accumulate in memory
	// before a flush to scraped.ndjson.
	SaveChunkSize int
	// MaxConcurrentPerHost caps in-flight fetches to a single origin.
	MaxConcurrentPerHost int
	// DelayBetweenRequests is slept while holding a host's admission
	// token, before the fetch itself.
	DelayBetweenRequests time.Duration
	// RequestTimeout bounds a single HTTP round trip.
	RequestTimeout time.Duration
	// MaxRetries is the number of fetch attempts for a retryable failure.
	MaxRetries int
	// RetryBackoff is the linear backoff unit: attempt N sleeps
	// N*RetryBackoff before the next attempt.
	RetryBackoff time.Duration
	// RespectRobots gates whether the robots cache is consulted.
	RespectRobots bool
	// UserAgent identifies the crawler to remote servers and to the
	// robots.txt group lookup.
	UserAgent string
	// OutputDir is where scraped.ndjson and visited.ndjson are written.
	OutputDir string
}

// Opt is a functional option over Settings.
type Opt func(*Settings)

func defaultSettings() Settings {
	return Settings{
		MaxTotalURLs:         defaultMaxTotalURLs,
		MaxGlobalWorkers:     defaultMaxGlobalWorkers,
		SaveChunkSize:        defaultSaveChunkSize,
		MaxConcurrentPerHost: defaultMaxConcurrentPerHost,
		DelayBetweenRequests: defaultDelayBetweenRequests,
		RequestTimeout:       defaultRequestTimeout,
		MaxRetries:           defaultMaxRetries,
		RetryBackoff:         defaultRetryBackoff,
		RespectRobots:        true,
		UserAgent:            defaultUserAgent,
		OutputDir:            ".",
	}
}

func WithMaxTotalURLs(n int) Opt         { return func(s *Settings) { s.MaxTotalURLs = n } }
func WithMaxGlobalWorkers(n int) Opt     { return func(s *Settings) { s.MaxGlobalWorkers = n } }
func WithSaveChunkSize(n int) Opt        { return func(s *Settings) { s.SaveChunkSize = n } }
func WithMaxConcurrentPerHost(n int) Opt { return func(s *Settings) { s.MaxConcurrentPerHost = n } }
func WithDelayBetweenRequests(d time.Duration) Opt {
	return func(s *Settings) { s.DelayBetweenRequests = d }
}
func WithRequestTimeout(d time.Duration) Opt { return func(s *Settings) { s.RequestTimeout = d } }
func WithMaxRetries(n int) Opt               { return func(s *Settings) { s.MaxRetries = n } }
func WithRetryBackoff(d time.Duration) Opt   { return func(s *Settings) { s.RetryBackoff = d } }
func WithRespectRobots(b bool) Opt           { return func(s *Settings) { s.RespectRobots = b } }
func WithUserAgent(ua string) Opt            { return func(s *Settings) { s.UserAgent = ua } }
func WithOutputDir(dir string) Opt           { return func(s *Settings) { s.OutputDir = dir } }

// WebCrawler is the main object representing one crawl. It owns the
// process-wide shared state (visited set, emission counter, stop flag)
// as one structure passed by reference to every worker, rather than as
// package-level globals.
type WebCrawler struct {
	logger   *log.Logger
	settings Settings
	fetcher  *fetcher.Fetcher
	detector fetcher.LanguageDetector
	progress messaging.Producer

	queue     *urlQueue
	visited   *visitedSet
	buffer    *scrapedBuffer
	admission *hostAdmission
	robots    *robotsCache
	rules     *crawlingRules

	mu      sync.Mutex
	emitted int
	stop    bool
}

// New creates a WebCrawler, opening (or resuming) visited.ndjson and
// scraped.ndjson under settings.OutputDir.
func New(opts ...Opt) (*WebCrawler, error) {
	settings := defaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.OutputDir == "" {
		settings.OutputDir = "."
	}
	if err := os.MkdirAll(settings.OutputDir, 0o755); err != nil {
		return nil, err
	}

	visited, err := newVisitedSet(filepath.Join(settings.OutputDir, "visited.ndjson"))
	if err != nil {
		return nil, err
	}
	buffer, err := newScrapedBuffer(filepath.Join(settings.OutputDir, "scraped.ndjson"), settings.SaveChunkSize)
	if err != nil {
		visited.Close()
		return nil, err
	}

	return &WebCrawler{
		logger:    log.New(os.Stderr, "crawler: ", log.LstdFlags),
		settings:  settings,
		fetcher:   fetcher.New(settings.UserAgent, settings.RequestTimeout, settings.MaxGlobalWorkers),
		detector:  fetcher.WhatlanggoDetector{},
		queue:     newURLQueue(),
		visited:   visited,
		buffer:    buffer,
		admission: newHostAdmission(settings.MaxConcurrentPerHost),
		robots:    newRobotsCache(),
		rules:     newCrawlingRules(settings.DelayBetweenRequests),
	}, nil
}

// WithProgressProducer wires an optional messaging.Producer that receives
// a JSON-encoded ScrapedDocument every time one is emitted, decoupling
// progress reporting from the crawl loop itself. Nil (the default) means
// no progress feed.
func (c *WebCrawler) WithProgressProducer(p messaging.Producer) *WebCrawler {
	c.progress = p
	return c
}

// Crawl pushes every seed onto the work queue and runs settings.MaxGlobalWorkers
// workers until the quota is reached, the queue drains naturally, or ctx is
// canceled. It returns the number of documents successfully emitted.
func (c *WebCrawler) Crawl(ctx context.Context, seeds ...string) (int, error) {
	for _, seed := range seeds {
		normalized, err := normalizeSeed(seed)
		if err != nil {
			return 0, err
		}
		c.queue.Push(normalized)
	}

	var wg sync.WaitGroup
	for i := 0; i < c.settings.MaxGlobalWorkers; i++ {
		wg.Add(1)
		go c.worker(ctx, &wg)
	}

	drained := make(chan struct{})
	go func() {
		c.queue.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		c.triggerStop()
		c.queue.Wait()
	}

	wg.Wait()
	if err := c.buffer.Flush(); err != nil {
		c.logger.Printf("final flush failed: %v", err)
	}

	c.mu.Lock()
	emitted := c.emitted
	c.mu.Unlock()
	return emitted, nil
}

// Close releases the underlying log file handles. Call after Crawl
// returns.
func (c *WebCrawler) Close() error {
	if err := c.buffer.Close(); err != nil {
		c.visited.Close()
		return err
	}
	return c.visited.Close()
}

// worker is the main loop run by each of MaxGlobalWorkers goroutines.
func (c *WebCrawler) worker(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		target, ok := c.queue.Dequeue(dequeueTimeout)
		if !ok {
			if c.queue.Len() == 0 || c.isStopped() {
				return
			}
			continue
		}
		c.visit(ctx, target)
	}
}

// visit implements one worker iteration of the main loop contract: skip
// if stopped or already visited, consult robots, acquire admission,
// sleep the politeness delay, fetch with retry, parse, buffer, enqueue
// newly discovered links, and account the emission.
func (c *WebCrawler) visit(ctx context.Context, target string) {
	defer c.queue.Done()

	if c.isStopped() {
		return
	}

	if c.visited.Contains(target) {
		return
	}
	inserted, err := c.visited.TryInsert(target)
	if err != nil {
		c.logger.Printf("visited log append failed for %s: %v", target, err)
	}
	if !inserted {
		return
	}

	parsed, err := url.Parse(target)
	if err != nil {
		c.logger.Printf("skipping malformed url %s: %v", target, err)
		return
	}

	if c.settings.RespectRobots && !c.robots.CanFetch(parsed, c.settings.UserAgent) {
		return
	}

	host := parsed.Hostname()
	c.admission.Acquire(host)
	doc, ok := c.fetchAndParse(ctx, target)
	c.admission.Release(host)
	if !ok {
		return
	}

	if err := c.buffer.Add(doc); err != nil {
		c.logger.Printf("buffer append failed for %s: %v", target, err)
	}
	c.publishProgress(doc)

	if !c.isStopped() {
		for _, link := range doc.LinksFound {
			if c.isStopped() {
				break
			}
			if !c.visited.Contains(link) {
				c.queue.Push(link)
			}
		}
	}

	if c.checkAndIncrementEmitted() {
		c.triggerStop()
	}
}

// fetchAndParse sleeps the politeness delay, fetches target with the
// retry policy, and parses a successful response into a ScrapedDocument.
// The caller must hold the host's admission token for its entire call.
func (c *WebCrawler) fetchAndParse(ctx context.Context, target string) (ScrapedDocument, bool) {
	time.Sleep(c.rules.Delay())

	body, ok := c.fetchWithRetry(ctx, target)
	if !ok {
		return ScrapedDocument{}, false
	}

	page, err := fetcher.Parse(body, target, c.detector)
	if err != nil {
		c.logger.Printf("parse failed for %s: %v", target, err)
		return ScrapedDocument{}, false
	}

	return ScrapedDocument{
		URL:         target,
		Title:       page.Title,
		TextContent: page.TextContent,
		PublishDate: page.PublishDate,
		Language:    page.Language,
		LinksFound:  page.LinksFound,
		LinksCount:  len(page.LinksFound),
		ScrapedAt:   time.Now().Format(time.RFC3339),
	}, true
}

// fetchWithRetry issues up to MaxRetries attempts, classifying each
// response per the failure policy: 200 is success; 404/403/410 are
// permanent failures; anything else (including network errors) is
// retried with a linear backoff of attempt*RetryBackoff between tries.
func (c *WebCrawler) fetchWithRetry(ctx context.Context, target string) (string, bool) {
	for attempt := 1; attempt <= c.settings.MaxRetries; attempt++ {
		body, status, err := c.fetcher.Fetch(ctx, target)
		if err == nil && status == http.StatusOK {
			return body, true
		}
		if err == nil && isPermanentStatus(status) {
			c.logger.Printf("permanent failure fetching %s: status %d", target, status)
			return "", false
		}
		if attempt == c.settings.MaxRetries {
			c.logger.Printf("exhausted %d retries fetching %s", c.settings.MaxRetries, target)
			return "", false
		}
		time.Sleep(time.Duration(attempt) * c.settings.RetryBackoff)
	}
	return "", false
}

func isPermanentStatus(status int) bool {
	switch status {
	case http.StatusNotFound, http.StatusForbidden, http.StatusGone:
		return true
	default:
		return false
	}
}

func (c *WebCrawler) publishProgress(doc ScrapedDocument) {
	if c.progress == nil {
		return
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return
	}
	if err := c.progress.Produce(payload); err != nil {
		c.logger.Printf("progress publish failed: %v", err)
	}
}

// checkAndIncrementEmitted is the single critical section guarding the
// emission counter and the stop flag together, so no worker can ever
// emit the N+1-th document once the quota is reached.
func (c *WebCrawler) checkAndIncrementEmitted() (justReachedQuota bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop {
		return false
	}
	c.emitted++
	if c.emitted >= c.settings.MaxTotalURLs {
		c.stop = true
		return true
	}
	return false
}

func (c *WebCrawler) isStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop
}

// triggerStop sets the stop flag and drains the queue immediately,
// discarding pending work while keeping the pending-acknowledgment
// accounting balanced so a later Wait cannot deadlock.
func (c *WebCrawler) triggerStop() {
	c.mu.Lock()
	c.stop = true
	c.mu.Unlock()
	c.queue.Drain()
}

func normalizeSeed(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	u.Fragment = ""
	u.RawQuery = ""
	return u.String(), nil
}
