package fetcher

import (
	"context"
	"net"
	"sync"
	"time"
)

// dnsCache memoizes host resolutions behind a TTL so a crawl does not
// re-resolve the same handful of hosts on every fetch.
type dnsCache struct {
	mu       sync.Mutex
	entries  map[string]dnsCacheEntry
	ttl      time.Duration
	resolver *net.Resolver
}

type dnsCacheEntry struct {
	addrs   []string
	expires time.Time
}

func newDNSCache(ttl time.Duration) *dnsCache {
	return &dnsCache{
		entries:  make(map[string]dnsCacheEntry),
		ttl:      ttl,
		resolver: net.DefaultResolver,
	}
}

func (c *dnsCache) lookup(ctx context.Context, host string) ([]string, error) {
	c.mu.Lock()
	entry, ok := c.entries[host]
	c.mu.Unlock()
	if ok && time.Now().Before(entry.expires) {
		return entry.addrs, nil
	}

	addrs, err := c.resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[host] = dnsCacheEntry{addrs: addrs, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return addrs, nil
}

// dialContext wraps dialer.DialContext so that every dial resolves the
// host through the cache first, falling back to the dialer's own
// resolution (and thus its own error) when the cache lookup fails.
func (c *dnsCache) dialContext(dialer *net.Dialer) func(context.Context, string, string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return dialer.DialContext(ctx, network, addr)
		}
		addrs, err := c.lookup(ctx, host)
		if err != nil || len(addrs) == 0 {
			return dialer.DialContext(ctx, network, addr)
		}
		return dialer.DialContext(ctx, network, net.JoinHostPort(addrs[0], port))
	}
}
