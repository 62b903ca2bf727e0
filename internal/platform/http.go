package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTP client defaults
const (
	DefaultHTTPTimeout = 60 * time.Second
	DefaultUserAgent   = "yt-downloader-lite"

	// maxImageBytes caps thumbnail downloads
	maxImageBytes = 10 << 20
)

// HTTPClient fetches small resources such as thumbnails.
type HTTPClient struct {
	httpClient *http.Client
	userAgent  string
}

// NewHTTPClient creates a client with a 60 second timeout
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent:  DefaultUserAgent,
	}
}

// Get performs a GET request and returns the response body
func (c *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

// ProgressWriter wraps a writer and reports the running byte count after
// every write.
type ProgressWriter struct {
	Writer io.Writer

	// Total is the expected size, 0 or less when unknown
	Total   int64
	Written int64

	OnUpdate func(written, total int64)
}

// Write implements io.Writer
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// contextReader stops a copy as soon as ctx is cancelled
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
