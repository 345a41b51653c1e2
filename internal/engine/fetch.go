package engine

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"

	"github.com/sharelgx/JDVideo/internal/domain"
	"github.com/sharelgx/JDVideo/internal/infra/logger"
)

const (
	// ChunkSize is the copy granularity between the socket and the file.
	ChunkSize = 512 * 1024

	// Bytes of an HTML error page parsed for its <title>
	htmlSniffLimit = 64 * 1024
	maxTitleRunes  = 120

	// Temp files get a short fixed name so any destination name the
	// filesystem accepts also fits as a temp name.
	partPrefix  = ".jdv-"
	partSuffix  = ".part"
	partPattern = partPrefix + "*" + partSuffix
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, ChunkSize)
		return &b
	},
}

// Fetcher downloads one URL to one destination file.
type Fetcher struct {
	client *http.Client
	idle   time.Duration
	locks  *PathLocks
	log    *logger.Logger
}

// NewFetcher uses timeout for connecting, for the response header and as the
// longest silence allowed while streaming the body.
func NewFetcher(timeout time.Duration, locks *PathLocks, log *logger.Logger) *Fetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	if locks == nil {
		locks = NewPathLocks()
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Fetcher{
		client: &http.Client{Transport: transport},
		idle:   timeout,
		locks:  locks,
		log:    log,
	}
}

// FetchAndStore downloads url to dest, making up to retries additional
// attempts after the first, and returns the bytes stored. dest only ever
// holds a complete body.
func (f *Fetcher) FetchAndStore(ctx context.Context, url, dest string, retries int, headers domain.HeaderOverrides) (int64, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, &FilesystemError{Op: "mkdir", Path: dir, Err: err}
	}

	unlock := f.locks.Lock(dest)
	defer unlock()

	var lastErr error
	for attempt := 1; attempt <= retries+1; attempt++ {
		n, err := f.attempt(ctx, url, dest, headers)
		if err == nil {
			f.log.Debug("[Fetch] %s -> %s (%s)", url, dest, humanize.Bytes(uint64(n)))
			return n, nil
		}
		lastErr = err

		if IsFilesystem(err) || ctx.Err() != nil {
			break
		}

		if attempt <= retries {
			f.log.Warn("[Retry] %s: attempt %d/%d - error: %v", dest, attempt, retries+1, err)
		}
	}

	return 0, lastErr
}

func (f *Fetcher) attempt(ctx context.Context, url, dest string, headers domain.HeaderOverrides) (int64, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	applyHeaders(req, headers)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &HTTPStatusError{Code: resp.StatusCode}
	}

	ctype := resp.Header.Get("Content-Type")
	if strings.Contains(strings.ToLower(ctype), "text/html") {
		return 0, &HTMLResponseError{ContentType: ctype, Title: pageTitle(resp.Body)}
	}

	body := newIdleReader(resp.Body, f.idle, cancel)
	defer body.stop()

	return writeAtomic(dest, body)
}

// writeAtomic streams r into a temp file next to dest and renames it into place.
func writeAtomic(dest string, r io.Reader) (int64, error) {
	dir := filepath.Dir(dest)

	tmp, err := os.CreateTemp(dir, partPattern)
	if err != nil {
		return 0, &FilesystemError{Op: "create", Path: dir, Err: err}
	}
	tmpPath := tmp.Name()

	bufp := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(bufp)

	n, err := io.CopyBuffer(fileWriter{tmp}, r, *bufp)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return n, err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return n, &FilesystemError{Op: "write", Path: tmpPath, Err: err}
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return n, &FilesystemError{Op: "rename", Path: dest, Err: err}
	}

	return n, nil
}

// fileWriter tags write failures as filesystem errors and hides ReadFrom so
// CopyBuffer uses the pooled buffer.
type fileWriter struct{ f *os.File }

func (w fileWriter) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	if err != nil {
		return n, &FilesystemError{Op: "write", Path: w.f.Name(), Err: err}
	}
	return n, nil
}

func applyHeaders(req *http.Request, h domain.HeaderOverrides) {
	if h.Referer != "" {
		req.Header.Set("Referer", h.Referer)
	}
	if h.Cookie != "" {
		req.Header.Set("Cookie", h.Cookie)
	}

	// An empty value suppresses Go's default User-Agent
	req.Header.Set("User-Agent", h.UA)
}

func pageTitle(r io.Reader) string {
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(r, htmlSniffLimit))
	if err != nil {
		return ""
	}

	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	if utf8.RuneCountInString(title) > maxTitleRunes {
		title = string([]rune(title)[:maxTitleRunes]) + "..."
	}
	return title
}

// idleReader cancels the request when no bytes arrive for d.
type idleReader struct {
	r        io.Reader
	d        time.Duration
	timer    *time.Timer
	timedOut atomic.Bool
}

func newIdleReader(r io.Reader, d time.Duration, cancel context.CancelFunc) *idleReader {
	ir := &idleReader{r: r, d: d}
	ir.timer = time.AfterFunc(d, func() {
		ir.timedOut.Store(true)
		cancel()
	})
	return ir
}

func (ir *idleReader) Read(p []byte) (int, error) {
	n, err := ir.r.Read(p)
	if err != nil && ir.timedOut.Load() {
		return n, fmt.Errorf("no data received for %s: %w", ir.d, err)
	}
	ir.timer.Reset(ir.d)
	return n, err
}

func (ir *idleReader) stop() { ir.timer.Stop() }
