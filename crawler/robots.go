package crawler

import (
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// robotsTimeout is the hard bound on fetching and parsing a single
// origin's robots.txt.
const robotsTimeout = 5 * time.Second

// robotsCache holds one parsed robots.txt group per origin (scheme+host).
// The first query for an origin fetches and parses the robots.txt; every
// subsequent query for the same origin is answered from the cache. A
// single mutex guards both population and evaluation so concurrent
// first-touches never duplicate the fetch.
type robotsCache struct {
	mu      sync.Mutex
	entries map[string]*robotstxt.Group
	client  *http.Client
}

func newRobotsCache() *robotsCache {
	return &robotsCache{
		entries: make(map[string]*robotstxt.Group),
		client:  &http.Client{Timeout: robotsTimeout},
	}
}

// CanFetch answers whether userAgent may fetch target, populating the
// cache entry for its origin on first touch. Any failure to fetch or
// parse robots.txt (non-200 status, network error, malformed body)
// yields a permissive (allow-all) policy for that origin, matching the
// convention that no robots.txt means full access.
func (c *robotsCache) CanFetch(target *url.URL, userAgent string) bool {
	origin := target.Scheme + "://" + target.Host

	c.mu.Lock()
	defer c.mu.Unlock()

	group, ok := c.entries[origin]
	if !ok {
		group = c.fetchGroup(origin, userAgent)
		c.entries[origin] = group
	}
	if group == nil {
		return true
	}
	return group.Test(target.RequestURI())
}

// fetchGroup downloads and parses <origin>/robots.txt. Called with c.mu
// held; returns nil to mean "no restrictions".
func (c *robotsCache) fetchGroup(origin, userAgent string) *robotstxt.Group {
	req, err := http.NewRequest("GET", origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(userAgent)
}
