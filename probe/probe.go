// Package probe resolves the natural pixel dimensions of source images. Only
// image headers are read, pixel decoding stays with the remote service.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"

	// header decoders for DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/layerkit/layerkit"
	"github.com/layerkit/layerkit/params"
	"golang.org/x/sync/singleflight"
)

// maxHeaderBytes is plenty for every registered format's size header
const maxHeaderBytes = 64 * 1024

func decodeDimensions(data []byte) (params.Dimensions, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return params.Dimensions{}, layerkit.ErrUnsupportedFormat
	}
	return params.Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

// HTTPProber probes source images over HTTP, deduplicating concurrent probes
// of the same source
type HTTPProber struct {
	// Transport overrides http.DefaultTransport when set
	Transport http.RoundTripper
	// UserAgent request header
	UserAgent string

	g singleflight.Group
}

// Probe implements layerkit.Prober
func (p *HTTPProber) Probe(ctx context.Context, imageURL string) (params.Dimensions, error) {
	v, err, _ := p.g.Do(imageURL, func() (interface{}, error) {
		return p.fetch(ctx, imageURL)
	})
	if err != nil {
		return params.Dimensions{}, err
	}
	return v.(params.Dimensions), nil
}

func (p *HTTPProber) fetch(ctx context.Context, imageURL string) (params.Dimensions, error) {
	client := &http.Client{Transport: p.Transport}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return params.Dimensions{}, err
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}
	resp, err := client.Do(req)
	if err != nil {
		return params.Dimensions{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return params.Dimensions{}, layerkit.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return params.Dimensions{}, fmt.Errorf("probe status %d", resp.StatusCode)
	}
	buf, err := io.ReadAll(io.LimitReader(resp.Body, maxHeaderBytes))
	if err != nil {
		return params.Dimensions{}, err
	}
	return decodeDimensions(buf)
}

// StoreProber probes source images held in a template store
type StoreProber struct {
	Store layerkit.Store
}

// Probe implements layerkit.Prober
func (p *StoreProber) Probe(ctx context.Context, imagePath string) (params.Dimensions, error) {
	data, err := p.Store.Get(ctx, imagePath)
	if err != nil {
		return params.Dimensions{}, err
	}
	return decodeDimensions(data)
}
