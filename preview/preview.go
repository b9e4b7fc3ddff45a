// Package preview debounces parameter changes and fetches the rendered
// preview from the remote image service, applying only the newest result.
package preview

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Fetcher retrieves the rendered preview for a pipeline URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetchFunc func adapter for Fetcher
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch implements Fetcher
func (f FetchFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// Result an applied preview
type Result struct {
	URL  string
	Data []byte
}

// Collector preview activity counters
type Collector interface {
	PreviewScheduled()
	PreviewFetched(d time.Duration, err error)
	PreviewApplied()
	PreviewDiscarded()
}

type nopCollector struct{}

func (nopCollector) PreviewScheduled()                   {}
func (nopCollector) PreviewFetched(time.Duration, error) {}
func (nopCollector) PreviewApplied()                     {}
func (nopCollector) PreviewDiscarded()                   {}

// Controller debounced preview scheduler. Each Invalidate restarts the
// debounce timer; when it fires, a fetch with a monotonically assigned
// request id starts. A completed fetch is applied only while it is still the
// newest request, superseded results are dropped silently, never surfaced as
// errors. Completion order is not assumed to match start order.
type Controller struct {
	Fetcher   Fetcher
	Debounce  time.Duration
	Timeout   time.Duration
	Logger    *zap.Logger
	Collector Collector
	OnApply   func(Result)
	OnError   func(error)

	mu      sync.Mutex
	timer   *time.Timer
	url     string
	dirty   bool
	seq     uint64
	applied uint64
	closed  bool
	wg      sync.WaitGroup
}

// New creates a preview Controller
func New(fetcher Fetcher, options ...Option) *Controller {
	c := &Controller{
		Fetcher:   fetcher,
		Debounce:  time.Millisecond * 300,
		Timeout:   time.Second * 20,
		Logger:    zap.NewNop(),
		Collector: nopCollector{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Invalidate schedules a debounced fetch of the given pipeline URL. A call
// arriving before the pending timer fires restarts it.
func (c *Controller) Invalidate(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.url = url
	c.dirty = true
	c.Collector.PreviewScheduled()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.Debounce, c.fire)
}

// Flush fires any pending fetch immediately, skipping the remaining debounce
func (c *Controller) Flush() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	pending := c.dirty && !c.closed
	c.mu.Unlock()
	if pending {
		c.fire()
	}
}

// Close stops the controller and waits for in-flight fetches to drain.
// Results completing during Close are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Controller) fire() {
	c.mu.Lock()
	if c.closed || !c.dirty {
		c.mu.Unlock()
		return
	}
	c.dirty = false
	c.seq++
	id := c.seq
	url := c.url
	c.wg.Add(1)
	c.mu.Unlock()
	go c.fetch(id, url)
}

func (c *Controller) fetch(id uint64, url string) {
	defer c.wg.Done()
	ctx := context.Background()
	if c.Timeout > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	start := time.Now()
	data, err := c.Fetcher.Fetch(ctx, url)
	c.Collector.PreviewFetched(time.Since(start), err)

	c.mu.Lock()
	stale := id != c.seq || id <= c.applied || c.closed
	if !stale && err == nil {
		c.applied = id
	}
	c.mu.Unlock()

	if stale {
		// a newer request started or completed, drop silently
		c.Collector.PreviewDiscarded()
		c.Logger.Debug("preview superseded",
			zap.Uint64("request", id), zap.String("url", url))
		return
	}
	if err != nil {
		c.Logger.Warn("preview fetch",
			zap.Uint64("request", id), zap.String("url", url), zap.Error(err))
		if c.OnError != nil {
			c.OnError(err)
		}
		return
	}
	c.Collector.PreviewApplied()
	c.Logger.Debug("preview applied",
		zap.Uint64("request", id), zap.String("url", url))
	if c.OnApply != nil {
		c.OnApply(Result{URL: url, Data: data})
	}
}
