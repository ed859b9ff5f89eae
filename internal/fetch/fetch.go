package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

// Default limits for source retrieval.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultRetryMax = 3

	// maxBodySize caps how much of a source document is read.
	// Collections and page snapshots are small.
	maxBodySize = 10 * 1024 * 1024 // 10 MiB
)

// retryLogAdaptor adapts the retryablehttp.Logger interface to zerolog.
type retryLogAdaptor struct{}

// Printf implements the retryablehttp.Logger interface.
func (retryLogAdaptor) Printf(format string, args ...interface{}) {
	log.Debug().Msgf(format, args...)
}

// Client retrieves source documents. References that look like http(s)
// URLs are downloaded with retries; everything else is read from disk.
type Client struct {
	http *retryablehttp.Client
}

// NewClient creates a retrieval client. Non-positive values fall back
// to the package defaults.
func NewClient(timeout time.Duration, retryMax int) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if retryMax < 0 {
		retryMax = DefaultRetryMax
	}

	rc := retryablehttp.NewClient()
	rc.Logger = retryLogAdaptor{}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.RetryMax = retryMax
	rc.HTTPClient.Timeout = timeout

	return &Client{http: rc}
}

// IsURL reports whether ref is an http(s) URL rather than a local path.
func IsURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// BaseName derives a display name from a source reference: the last
// path segment with the query string and recognized document suffixes
// stripped. References with no usable segment come back unchanged.
func BaseName(ref string) string {
	trimmed := ref
	if i := strings.Index(trimmed, "?"); i >= 0 {
		trimmed = trimmed[:i]
	}
	trimmed = strings.TrimSuffix(trimmed, "/")

	base := trimmed
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		base = trimmed[i+1:]
	}
	base = strings.TrimSuffix(base, ".postman_collection.json")
	base = strings.TrimSuffix(base, ".json")
	base = strings.TrimSuffix(base, ".html")
	base = strings.TrimSuffix(base, ".htm")
	if base == "" || base == "." {
		return ref
	}
	return base
}

// Fetch resolves a source reference to its raw contents.
func (c *Client) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if IsURL(ref) {
		return c.download(ctx, ref)
	}
	return readFile(strings.TrimPrefix(ref, "file://"))
}

func (c *Client) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	log.Debug().Str("url", rawURL).Msg("fetching source document")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || 299 < resp.StatusCode {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("unexpected status %d fetching %s: %s", resp.StatusCode, rawURL, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > maxBodySize {
		return nil, fmt.Errorf("document at %s exceeds the %d byte limit", rawURL, maxBodySize)
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, expected a file", path)
	}
	if info.Size() > maxBodySize {
		return nil, fmt.Errorf("file %s exceeds the %d byte limit", path, maxBodySize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
