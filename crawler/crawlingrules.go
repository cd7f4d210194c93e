package crawler

import "time"

// crawlingRules holds the politeness delay to respect while holding a
// host's admission slot: acquire the per-host admission token, sleep the
// delay, then fetch. Robots.txt handling lives separately in
// robotsCache.
type crawlingRules struct {
	delay time.Duration
}

func newCrawlingRules(delay time.Duration) *crawlingRules {
	return &crawlingRules{delay: delay}
}

// Delay returns the fixed inter-request delay to honor while holding a
// host's admission slot.
func (r *crawlingRules) Delay() time.Duration {
	return r.delay
}
