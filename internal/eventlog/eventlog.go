// Package eventlog keeps the append-only JSON-lines record of batch activity.
package eventlog

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// Event names written by the gateway.
const (
	EventRecv = "server:recv"
	EventOK   = "ok"
	EventFail = "fail"
)

// Log appends one JSON object per line. Appends never fail: a record that
// cannot be written is counted and dropped.
type Log struct {
	path    string
	mu      sync.Mutex
	dropped atomic.Int64
	zl      zerolog.Logger
}

func New(path string) *Log {
	l := &Log{path: path}
	l.zl = zerolog.New(fileAppender{l})
	return l
}

// Path is the file records are appended to.
func (l *Log) Path() string { return l.path }

// Dropped counts records lost to I/O errors.
func (l *Log) Dropped() int64 { return l.dropped.Load() }

// Append writes record with a "ts" field added unless it already has one.
func (l *Log) Append(record map[string]any) {
	ev := l.zl.Log()
	if _, ok := record["ts"]; !ok {
		ev = ev.Str("ts", time.Now().UTC().Format(time.RFC3339Nano))
	}
	ev.Fields(record).Send()
}

// AppendValue logs an arbitrary decoded JSON value; non-objects are kept under "payload".
func (l *Log) AppendValue(v any) {
	if m, ok := v.(map[string]any); ok {
		l.Append(m)
		return
	}
	l.Append(map[string]any{"payload": v})
}

func (l *Log) Received(batchID string, count int, target, sub string) {
	l.Append(map[string]any{"event": EventRecv, "batch": batchID, "count": count, "target": target, "sub": sub})
}

func (l *Log) Succeeded(sku, path string, bytes int64) {
	l.Append(map[string]any{"event": EventOK, "sku": sku, "path": path, "bytes": bytes, "size": humanize.Bytes(uint64(bytes))})
}

func (l *Log) Failed(sku, reason, url string) {
	l.Append(map[string]any{"event": EventFail, "sku": sku, "error": reason, "url": url})
}

// fileAppender opens the file per write so a rotated or deleted log is recreated.
type fileAppender struct{ l *Log }

func (a fileAppender) Write(p []byte) (int, error) {
	a.l.mu.Lock()
	defer a.l.mu.Unlock()

	if err := a.write(p); err != nil {
		a.l.dropped.Add(1)
	}
	return len(p), nil
}

func (a fileAppender) write(p []byte) error {
	if err := os.MkdirAll(filepath.Dir(a.l.path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(a.l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	if _, err := f.Write(p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
