package blob

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// HTTPGetter fetches blobs referenced by plain http(s) URLs, e.g. groups
// created by other tools that store photos on a CDN.
type HTTPGetter struct {
	client *http.Client
}

// NewHTTPGetter creates a getter with a bounded client timeout.
func NewHTTPGetter(timeout time.Duration) *HTTPGetter {
	return &HTTPGetter{client: &http.Client{Timeout: timeout}}
}

func (g *HTTPGetter) Get(ctx context.Context, url string) (*Object, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s returned status %d", ErrUnavailable, url, resp.StatusCode)
	}

	data, err := readLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnavailable)
	}
	return &Object{Data: data, ContentType: DetectContentType(data, resp.Header.Get("Content-Type"))}, nil
}
