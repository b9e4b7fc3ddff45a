package preview

import (
	"time"

	"go.uber.org/zap"
)

// Option Controller option
type Option func(c *Controller)

// WithDebounce with debounce interval option
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.Debounce = d
		}
	}
}

// WithTimeout with fetch timeout option
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.Timeout = d
	}
}

// WithLogger with logger option
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithCollector with metrics collector option
func WithCollector(collector Collector) Option {
	return func(c *Controller) {
		if collector != nil {
			c.Collector = collector
		}
	}
}

// WithOnApply with applied result callback option
func WithOnApply(fn func(Result)) Option {
	return func(c *Controller) {
		c.OnApply = fn
	}
}

// WithOnError with fetch failure callback option
func WithOnError(fn func(error)) Option {
	return func(c *Controller) {
		c.OnError = fn
	}
}
