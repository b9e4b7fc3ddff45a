package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPFetcher fetches previews from the remote image service over HTTP
type HTTPFetcher struct {
	// Transport overrides http.DefaultTransport when set
	Transport http.RoundTripper
	// UserAgent request header
	UserAgent string
	// OverrideHeaders set on every request
	OverrideHeaders map[string]string
	// MaxAllowedSize limits the response body in bytes, 0 for no limit
	MaxAllowedSize int
}

// Fetch implements Fetcher
func (h *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := &http.Client{Transport: h.Transport}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}
	for key, value := range h.OverrideHeaders {
		req.Header.Set(key, value)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("preview fetch status %d", resp.StatusCode)
	}
	var reader io.Reader = resp.Body
	if h.MaxAllowedSize > 0 {
		reader = io.LimitReader(resp.Body, int64(h.MaxAllowedSize)+1)
	}
	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if h.MaxAllowedSize > 0 && len(buf) > h.MaxAllowedSize {
		return nil, fmt.Errorf("preview exceeds maximum allowed size %d", h.MaxAllowedSize)
	}
	return buf, nil
}
