package crawler

import (
	"sync"

	"github.com/codepr/webranker/storage"
)

// scrapedBuffer accumulates parsed documents in memory and flushes them
// to scraped.ndjson in chunks. One mutex guards both the buffer slice
// mutation and the flush to disk, so a flush can never race a concurrent
// append.
type scrapedBuffer struct {
	mu        sync.Mutex
	items     []ScrapedDocument
	chunkSize int
	appender  *storage.Appender
}

func newScrapedBuffer(path string, chunkSize int) (*scrapedBuffer, error) {
	appender, err := storage.NewAppender(path)
	if err != nil {
		return nil, err
	}
	return &scrapedBuffer{chunkSize: chunkSize, appender: appender}, nil
}

// Add appends doc to the buffer and flushes to disk once the buffer
// reaches chunkSize.
func (b *scrapedBuffer) Add(doc ScrapedDocument) error {
	b.mu.Lock()
	b.items = append(b.items, doc)
	shouldFlush := len(b.items) >= b.chunkSize
	b.mu.Unlock()

	if shouldFlush {
		return b.Flush()
	}
	return nil
}

// Flush writes every buffered document to disk and clears the buffer,
// regardless of chunk size. Used both for the size-triggered flush and
// the final forced flush on shutdown.
func (b *scrapedBuffer) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == 0 {
		return nil
	}
	pending := make([]interface{}, len(b.items))
	for i, item := range b.items {
		pending[i] = item
	}
	b.items = nil

	return b.appender.AppendAll(pending)
}

func (b *scrapedBuffer) Close() error {
	return b.appender.Close()
}
