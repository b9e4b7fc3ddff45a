package layerkit

import (
	"context"
	"time"

	"github.com/layerkit/layerkit/params"
)

// Stat metadata of a stored document
type Stat struct {
	Size         int64
	ETag         string
	ModifiedTime time.Time
}

// Store narrow save/load interface to the external storage collaborator.
// Put without overwrite must fail with ErrExists when the key is taken, so
// callers can confirm and retry; the retry is a full replace.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, overwrite bool) error
	Stat(ctx context.Context, key string) (*Stat, error)
	Delete(ctx context.Context, key string) error
}

// Lister optional Store extension enumerating keys under a prefix
type Lister interface {
	List(ctx context.Context, prefix string) ([]string, error)
}

// Prober resolves the natural pixel dimensions of a source image
type Prober interface {
	Probe(ctx context.Context, image string) (params.Dimensions, error)
}

// ProbeFunc func adapter for Prober
type ProbeFunc func(ctx context.Context, image string) (params.Dimensions, error)

// Probe implements Prober
func (f ProbeFunc) Probe(ctx context.Context, image string) (params.Dimensions, error) {
	return f(ctx, image)
}

// Metrics counters for editor and preview activity, all methods optional
// no-ops in the default implementation
type Metrics interface {
	TemplateSaved()
	TemplateConflict()
	LayerProbed(d time.Duration, err error)
}

type nopMetrics struct{}

func (nopMetrics) TemplateSaved()                   {}
func (nopMetrics) TemplateConflict()                {}
func (nopMetrics) LayerProbed(time.Duration, error) {}
