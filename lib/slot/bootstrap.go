package slot

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/dBlog/data"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// maxDocumentBytes bounds how much of a bootstrap response is read
const maxDocumentBytes = 32 << 20

// Document is a raw bootstrap document
type Document struct {
	Data   []byte
	Format Format
	// Origin describes where the document came from, used in log and error messages
	Origin string
}

// Bootstrap provides the document an empty slot is seeded with
type Bootstrap interface {
	Fetch(ctx context.Context) (Document, error)
}

// BootstrapFunc adapts a function to the Bootstrap interface
type BootstrapFunc func(ctx context.Context) (Document, error)

func (f BootstrapFunc) Fetch(ctx context.Context) (Document, error) {
	return f(ctx)
}

// FormatFromPath picks the format from a file name or URL path; ".yaml" and ".yml"
// are YAML, everything else is JSON.
func FormatFromPath(p string) Format {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// BootstrapFromLocation returns an HTTP source for http(s) URLs, the embedded seed
// for an empty location and a file source for everything else.
func BootstrapFromLocation(location string, timeout time.Duration, retries int) Bootstrap {
	switch {
	case location == "":
		return EmbeddedBootstrap()
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return HTTPBootstrap(location, timeout, retries)
	default:
		return FileBootstrap(location)
	}
}

// --------------------------------------------------------------------------
// Embedded
// --------------------------------------------------------------------------

type embeddedBootstrap struct{}

// EmbeddedBootstrap returns the seed document compiled into the binary
func EmbeddedBootstrap() Bootstrap {
	return embeddedBootstrap{}
}

func (embeddedBootstrap) Fetch(context.Context) (Document, error) {
	return Document{
		Data:   data.Seed,
		Format: FormatJSON,
		Origin: "embedded data.json",
	}, nil
}

// --------------------------------------------------------------------------
// File
// --------------------------------------------------------------------------

type fileBootstrap struct {
	path string
}

// FileBootstrap reads the document from a local file
func FileBootstrap(path string) Bootstrap {
	return fileBootstrap{path: path}
}

func (b fileBootstrap) Fetch(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	raw, err := os.ReadFile(b.path)
	if err != nil {
		return Document{}, fmt.Errorf("read bootstrap file: %w", err)
	}
	return Document{
		Data:   raw,
		Format: FormatFromPath(b.path),
		Origin: b.path,
	}, nil
}

// --------------------------------------------------------------------------
// HTTP
// --------------------------------------------------------------------------

type httpBootstrap struct {
	url     string
	timeout time.Duration
	retries int
	client  *http.Client
}

// HTTPBootstrap fetches the document with a GET request. Every attempt is bounded by
// timeout (0 means no limit). Network errors and 5xx responses are retried up to
// retries times, other non-200 responses fail immediately.
func HTTPBootstrap(rawURL string, timeout time.Duration, retries int) Bootstrap {
	if retries < 0 {
		retries = 0
	}
	return &httpBootstrap{
		url:     rawURL,
		timeout: timeout,
		retries: retries,
		client:  &http.Client{},
	}
}

// statusError is a non-200 response
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.code, http.StatusText(e.code))
}

func (e *statusError) retryable() bool {
	return e.code >= 500
}

func (b *httpBootstrap) Fetch(ctx context.Context) (Document, error) {
	var lastErr error
	for attempt := 0; attempt <= b.retries; attempt++ {
		if attempt > 0 {
			log.Warningf("bootstrap fetch %s failed (attempt %d/%d): %v", b.url, attempt, b.retries+1, lastErr)
			select {
			case <-ctx.Done():
				return Document{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}

		doc, err := b.fetchOnce(ctx)
		if err == nil {
			return doc, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return Document{}, ctx.Err()
		}
		if se, ok := err.(*statusError); ok && !se.retryable() {
			break
		}
	}
	return Document{}, fmt.Errorf("fetch bootstrap %s: %w", b.url, lastErr)
}

func (b *httpBootstrap) fetchOnce(ctx context.Context) (Document, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return Document{}, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := b.client.Do(req)
	if err != nil {
		return Document{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Document{}, &statusError{code: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return Document{}, fmt.Errorf("read body: %w", err)
	}

	return Document{
		Data:   raw,
		Format: b.formatOf(resp),
		Origin: b.url,
	}, nil
}

// formatOf prefers the Content-Type header and falls back to the URL path extension
func (b *httpBootstrap) formatOf(resp *http.Response) Format {
	if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		if strings.Contains(mediaType, "yaml") {
			return FormatYAML
		}
		if strings.Contains(mediaType, "json") {
			return FormatJSON
		}
	}
	if u, err := url.Parse(b.url); err == nil {
		return FormatFromPath(path.Base(u.Path))
	}
	return FormatJSON
}
