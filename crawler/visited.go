package crawler

import (
	"encoding/json"
	"sync"

	"github.com/codepr/webranker/storage"
)

// visitedSet tracks every URL the crawler has ever dispatched, backed by
// visited.ndjson for resume-on-restart. Insertion into the in-memory set
// and the append to the log file happen under the same lock window, so
// two workers racing on the same URL can never both win the "first to
// visit" check.
type visitedSet struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	appender *storage.Appender
}

func newVisitedSet(path string) (*visitedSet, error) {
	v := &visitedSet{seen: make(map[string]struct{})}

	err := storage.EachLine(path, func(line []byte) error {
		var rec visitedRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return err
		}
		v.seen[rec.URL] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	appender, err := storage.NewAppender(path)
	if err != nil {
		return nil, err
	}
	v.appender = appender
	return v, nil
}

// Contains reports whether url has already been recorded as visited.
func (v *visitedSet) Contains(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.seen[url]
	return ok
}

// TryInsert atomically checks membership and, if url is new, records it
// both in memory and in visited.ndjson. It reports whether url was newly
// inserted (false means it was already visited).
func (v *visitedSet) TryInsert(url string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[url]; ok {
		return false, nil
	}
	v.seen[url] = struct{}{}

	if err := v.appender.Append(visitedRecord{URL: url}); err != nil {
		return true, err
	}
	return true, nil
}

// Len reports the number of visited URLs loaded and recorded so far.
func (v *visitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}

func (v *visitedSet) Close() error {
	return v.appender.Close()
}
