package probe

import (
	"context"
	"sync"

	"github.com/layerkit/layerkit"
	"github.com/layerkit/layerkit/params"
)

// CachedProber wraps a Prober with a process wide dimension cache. Natural
// dimensions only change when the source image itself is replaced, so cache
// entries live until explicitly invalidated: callers bust the entry after an
// upload, move or delete of the source, or clear wholesale on sign-out.
type CachedProber struct {
	Prober layerkit.Prober

	mu    sync.Mutex
	cache map[string]params.Dimensions
}

// NewCachedProber creates a CachedProber over the given Prober
func NewCachedProber(prober layerkit.Prober) *CachedProber {
	return &CachedProber{
		Prober: prober,
		cache:  map[string]params.Dimensions{},
	}
}

// Probe implements layerkit.Prober. Failed probes are not cached.
func (p *CachedProber) Probe(ctx context.Context, image string) (params.Dimensions, error) {
	p.mu.Lock()
	if dims, ok := p.cache[image]; ok {
		p.mu.Unlock()
		return dims, nil
	}
	p.mu.Unlock()
	dims, err := p.Prober.Probe(ctx, image)
	if err != nil {
		return params.Dimensions{}, err
	}
	p.mu.Lock()
	p.cache[image] = dims
	p.mu.Unlock()
	return dims, nil
}

// ClearEntry invalidates one source's cached dimensions
func (p *CachedProber) ClearEntry(image string) {
	p.mu.Lock()
	delete(p.cache, image)
	p.mu.Unlock()
}

// Clear invalidates the whole cache
func (p *CachedProber) Clear() {
	p.mu.Lock()
	p.cache = map[string]params.Dimensions{}
	p.mu.Unlock()
}
