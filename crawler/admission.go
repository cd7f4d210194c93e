package crawler

import "sync"

// hostAdmission maps a host to a counting semaphore capped at
// maxConcurrentPerHost, created lazily on first contact with that host.
// A slot is held for the entire fetch of one URL, including the
// politeness delay and every retry attempt, so politeness is enforced as
// "at most N in-flight fetches per origin" rather than merely throttling
// request starts.
type hostAdmission struct {
	mu         sync.Mutex
	semaphores map[string]chan struct{}
	maxPerHost int
}

func newHostAdmission(maxPerHost int) *hostAdmission {
	if maxPerHost <= 0 {
		maxPerHost = 1
	}
	return &hostAdmission{
		semaphores: make(map[string]chan struct{}),
		maxPerHost: maxPerHost,
	}
}

func (h *hostAdmission) semaphoreFor(host string) chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	sem, ok := h.semaphores[host]
	if !ok {
		sem = make(chan struct{}, h.maxPerHost)
		h.semaphores[host] = sem
	}
	return sem
}

// Acquire blocks until a slot for host is available.
func (h *hostAdmission) Acquire(host string) {
	h.semaphoreFor(host) <- struct{}{}
}

// Release returns the slot for host.
func (h *hostAdmission) Release(host string) {
	<-h.semaphoreFor(host)
}
