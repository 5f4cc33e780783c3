// Package poll runs a fetch-and-apply callback immediately and then on a
// fixed interval until stopped.
//
// Each tick is scheduled relative to the previous launch, and a tick never
// waits for the previous invocation to finish: a slow request can still be
// in flight when the next one starts. Callers apply results with "last
// completion wins".
//
// Stopping only cancels future scheduling. Invocations already running are
// left to complete, and their results may still be applied.
package poll

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wastewise/wastewise/internal/errors"
	"github.com/wastewise/wastewise/internal/logger"
)

// DefaultInterval is the refresh period of every dashboard view.
const DefaultInterval = 30 * time.Second

// Func is one fetch-and-apply cycle.
type Func func(ctx context.Context) error

// ErrorSink receives failures from a handle's invocations.
type ErrorSink func(name string, err error)

// Handle controls one running poll schedule.
type Handle struct {
	name     string
	fn       Func
	interval time.Duration
	ctx      context.Context
	sink     ErrorSink

	mu      sync.Mutex
	stopped bool
	timer   *time.Timer

	runs     atomic.Int64
	inflight sync.WaitGroup
}

// Option configures a Handle.
type Option func(*Handle)

// WithName labels the handle in log lines and sink calls.
func WithName(name string) Option {
	return func(h *Handle) { h.name = name }
}

// WithErrorSink replaces the default logging sink.
func WithErrorSink(sink ErrorSink) Option {
	return func(h *Handle) {
		if sink != nil {
			h.sink = sink
		}
	}
}

// WithLogger reports failures to l at warn level.
func WithLogger(l logger.Logger) Option {
	return WithErrorSink(logSink(l))
}

// WithContext sets the context handed to every invocation.
func WithContext(ctx context.Context) Option {
	return func(h *Handle) {
		if ctx != nil {
			h.ctx = ctx
		}
	}
}

func logSink(l logger.Logger) ErrorSink {
	return func(name string, err error) {
		l.Warn("%s poll failed: %s", name, errors.Summary(err))
	}
}

// Start invokes fn now and then every interval until the handle is stopped.
// A non-positive interval falls back to DefaultInterval.
func Start(fn Func, interval time.Duration, opts ...Option) *Handle {
	if interval <= 0 {
		interval = DefaultInterval
	}
	h := &Handle{
		name:     "poll",
		fn:       fn,
		interval: interval,
		ctx:      context.Background(),
		sink:     logSink(logger.NewEnvLogger("[poll]")),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.launch()
	h.timer = time.AfterFunc(h.interval, h.tick)
	return h
}

// tick fires from the timer goroutine.
func (h *Handle) tick() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.launch()
	h.timer.Reset(h.interval)
}

// launch starts one invocation. Callers hold h.mu, so Stop cannot slip
// in between the stopped check and the launch.
func (h *Handle) launch() {
	h.runs.Add(1)
	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				h.sink(h.name, fmt.Errorf("panic in %s poll: %v", h.name, r))
			}
		}()
		if err := h.fn(h.ctx); err != nil {
			h.sink(h.name, err)
		}
	}()
}

// Stop cancels future invocations. It is safe to call more than once.
// After Stop returns no new invocation starts; one already running is not
// interrupted.
func (h *Handle) Stop() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	if h.timer != nil {
		h.timer.Stop()
	}
}

// Stop stops h; a nil handle is a no-op.
func Stop(h *Handle) {
	h.Stop()
}

// isStopped reports whether Stop has been called.
func (h *Handle) isStopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

// Runs returns how many invocations have been launched.
func (h *Handle) Runs() int64 {
	return h.runs.Load()
}

// Wait blocks until every launched invocation has returned.
// Call it after Stop; otherwise new invocations may keep it waiting.
func (h *Handle) Wait() {
	h.inflight.Wait()
}

// Name returns the handle's label.
func (h *Handle) Name() string {
	return h.name
}

// Group stops a set of handles together, e.g. every poller owned by one view.
type Group struct {
	mu      sync.Mutex
	handles []*Handle
}

// Add registers h with the group and returns it.
func (g *Group) Add(h *Handle) *Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handles = append(g.handles, h)
	return h
}

// Stop stops every handle in the group. Idempotent.
func (g *Group) Stop() {
	g.mu.Lock()
	handles := g.handles
	g.handles = nil
	g.mu.Unlock()

	for _, h := range handles {
		h.Stop()
	}
}

// Len returns how many handles are registered.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.handles)
}
