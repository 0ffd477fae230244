package fetcher

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/genricoloni/cmusnotify/internal/tempfile"
	"go.uber.org/zap"
)

const (
	_maxCoverSize   = 10 * 1024 * 1024 // 10 MB
	_requestTimeout = 10 * time.Second
	_userAgent      = "cmus-notify/1.0"
)

// HTTPFetcher downloads cover art from a cover server when nothing is found locally
type HTTPFetcher struct {
	logger *zap.Logger
	client *http.Client
}

// NewHTTPFetcher creates a new HTTP-based fetcher instance
func NewHTTPFetcher(logger *zap.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		logger: logger,
		client: &http.Client{
			Timeout: _requestTimeout, // A slow cover server must not hold up notifications
		},
	}
}

// Fetch downloads image data from the given URL
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported protocol: %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", _userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("url is not an image: %s", resp.Header.Get("Content-Type"))
	}

	// One byte past the cap tells a full-size cover from a truncated one
	data, err := io.ReadAll(io.LimitReader(resp.Body, _maxCoverSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) > _maxCoverSize {
		return nil, fmt.Errorf("cover exceeds %d bytes", _maxCoverSize)
	}

	f.logger.Debug("Cover fetched successfully", zap.Int("bytes", len(data)), zap.String("url", rawURL))
	return data, nil
}

// FetchToFile downloads the cover at rawURL into a temporary file in dir.
// The caller owns the returned file.
func (f *HTTPFetcher) FetchToFile(ctx context.Context, rawURL, dir string) (*tempfile.File, error) {
	data, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return tempfile.New(dir, data)
}
