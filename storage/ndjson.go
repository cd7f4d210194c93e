// Package storage contains the append-only line-delimited JSON utilities
// shared by the crawler, indexer and search stages. Each stage exchanges
// state only through these newline-delimited files, never through direct
// calls into one another.
package storage

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"sync"
)

// Appender is a single mutex-guarded file handle that appends one JSON
// object per line: a single lock window around every mutation of the
// shared file.
type Appender struct {
	mutex sync.Mutex
	file  *os.File
}

// NewAppender opens (or creates) path for appending and returns an
// Appender ready to accept records.
func NewAppender(path string) (*Appender, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &Appender{file: f}, nil
}

// NewRewriter opens path truncated to zero length and returns an
// Appender over it. Used by the indexer, whose output is created once
// per run rather than resumed.
func NewRewriter(path string) (*Appender, error) {
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &Appender{file: f}, nil
}

// Append marshals v and writes it as a single line. The write is
// serialized against concurrent Append calls from other workers.
func (a *Appender) Append(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	_, err = a.file.Write(append(payload, '\n'))
	return err
}

// AppendAll appends every value in vs under a single lock acquisition,
// used by the crawler's chunked buffer flush so a partial flush never
// interleaves with another worker's single Append.
func (a *Appender) AppendAll(vs []interface{}) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	for _, v := range vs {
		payload, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := a.file.Write(append(payload, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying file descriptor.
func (a *Appender) Close() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.file.Close()
}

// EachLine opens path and invokes fn for every non-blank line. A line
// that fails fn's unmarshal is skipped, never aborting the scan:
// corrupted lines are dropped, processing continues. A missing file is
// treated as an empty stream.
func EachLine(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(trimSpace(line)) == 0 {
			continue
		}
		lineCopy := append([]byte(nil), line...)
		if err := fn(lineCopy); err != nil {
			continue
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func trimSpace(b []byte) []byte {
	start := 0
	for start < len(b) && isSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
