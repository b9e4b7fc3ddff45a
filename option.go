package layerkit

import (
	"github.com/layerkit/layerkit/params"
	"github.com/layerkit/layerkit/pipeline"
	"github.com/layerkit/layerkit/preview"
	"go.uber.org/zap"
)

// Option Editor option
type Option func(e *Editor)

// WithLogger with logger option
func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.Logger = logger
		}
	}
}

// WithDebug with debug logging option
func WithDebug(debug bool) Option {
	return func(e *Editor) {
		e.Debug = debug
	}
}

// WithStore with template store option
func WithStore(store Store) Option {
	return func(e *Editor) {
		e.Store = store
	}
}

// WithProber with dimension prober option
func WithProber(prober Prober) Option {
	return func(e *Editor) {
		e.Prober = prober
	}
}

// WithMetrics with metrics option
func WithMetrics(m Metrics) Option {
	return func(e *Editor) {
		if m != nil {
			e.Metrics = m
		}
	}
}

// WithResolver with pipeline resolver option
func WithResolver(r pipeline.Resolver) Option {
	return func(e *Editor) {
		e.Resolver = r
	}
}

// WithServiceURL with remote image service endpoint option
func WithServiceURL(baseURL string) Option {
	return func(e *Editor) {
		e.Resolver.BaseURL = baseURL
	}
}

// WithAccessToken with access token query parameter option
func WithAccessToken(token string) Option {
	return func(e *Editor) {
		e.Resolver.AccessToken = token
	}
}

// WithSigner with pipeline path signer option
func WithSigner(signer pipeline.Signer) Option {
	return func(e *Editor) {
		e.Resolver.Signer = signer
	}
}

// WithUnsafe with unsafe unsigned pipeline URL option
func WithUnsafe(unsafe bool) Option {
	return func(e *Editor) {
		e.Resolver.Unsafe = unsafe
	}
}

// WithPreview with preview controller option
func WithPreview(c *preview.Controller) Option {
	return func(e *Editor) {
		e.Preview = c
	}
}

// WithViewport with initial viewport dimensions option
func WithViewport(d params.Dimensions) Option {
	return func(e *Editor) {
		e.viewport = d
	}
}
