package poll

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wastewise/wastewise/internal/logger"
)

// recordingSink collects errors reported by a handle.
type recordingSink struct {
	mu   sync.Mutex
	errs []error
}

func (r *recordingSink) sink(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func TestStart_InvokesImmediately(t *testing.T) {
	var calls atomic.Int32
	h := Start(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, time.Hour)
	defer h.Stop()

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, int64(1), h.Runs())
}

func TestStart_RepeatsOnInterval(t *testing.T) {
	var calls atomic.Int32
	h := Start(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, 10*time.Millisecond)
	defer h.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
}

func TestStart_NonPositiveIntervalUsesDefault(t *testing.T) {
	h := Start(func(ctx context.Context) error { return nil }, 0)
	defer h.Stop()
	assert.Equal(t, DefaultInterval, h.interval)
}

func TestStop_Idempotent(t *testing.T) {
	var calls atomic.Int32
	h := Start(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, 5*time.Millisecond)

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)

	assert.NotPanics(t, func() {
		h.Stop()
		h.Stop()
		Stop(h)
	})
	assert.True(t, h.isStopped())

	h.Wait()
	after := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no invocations after Stop")
	assert.Equal(t, int64(after), h.Runs())
}

func TestStop_NilHandle(t *testing.T) {
	var h *Handle
	assert.NotPanics(t, func() {
		h.Stop()
		Stop(nil)
	})
}

func TestFailureDoesNotHaltPolling(t *testing.T) {
	var calls atomic.Int32
	rec := &recordingSink{}

	h := Start(func(ctx context.Context) error {
		if calls.Add(1) == 1 {
			return stderrors.New("backend down")
		}
		return nil
	}, 10*time.Millisecond, WithErrorSink(rec.sink), WithName("stats"))
	defer h.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestFailureKeepsInterval(t *testing.T) {
	var (
		mu    sync.Mutex
		times []time.Time
	)
	interval := 40 * time.Millisecond
	h := Start(func(ctx context.Context) error {
		mu.Lock()
		times = append(times, time.Now())
		mu.Unlock()
		return stderrors.New("always failing")
	}, interval, WithErrorSink(func(string, error) {}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(times) >= 3
	}, 2*time.Second, time.Millisecond)
	h.Stop()

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		assert.GreaterOrEqual(t, gap, interval-5*time.Millisecond, "tick %d came early", i)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	var calls atomic.Int32
	rec := &recordingSink{}

	h := Start(func(ctx context.Context) error {
		if calls.Add(1) == 1 {
			panic("bad payload")
		}
		return nil
	}, 10*time.Millisecond, WithErrorSink(rec.sink))
	defer h.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
	require.Equal(t, 1, rec.count())
	assert.Contains(t, rec.errs[0].Error(), "bad payload")
}

func TestIndependentHandlesDoNotShareFailures(t *testing.T) {
	var okCalls, badCalls atomic.Int32
	sink := &recordingSink{}

	bad := Start(func(ctx context.Context) error {
		badCalls.Add(1)
		return stderrors.New("alerts endpoint broken")
	}, 10*time.Millisecond, WithErrorSink(sink.sink))
	good := Start(func(ctx context.Context) error {
		okCalls.Add(1)
		return nil
	}, 10*time.Millisecond, WithErrorSink(sink.sink))
	defer good.Stop()

	require.Eventually(t, func() bool { return badCalls.Load() >= 2 }, time.Second, time.Millisecond)
	bad.Stop()

	before := okCalls.Load()
	assert.Eventually(t, func() bool { return okCalls.Load() > before+1 }, time.Second, time.Millisecond,
		"stopping or failing one handle must not affect the other")
}

func TestStopDoesNotAbortInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var applied atomic.Bool

	h := Start(func(ctx context.Context) error {
		close(started)
		<-release
		applied.Store(true)
		return nil
	}, time.Hour)

	<-started
	h.Stop()
	assert.False(t, applied.Load())

	close(release)
	h.Wait()
	assert.True(t, applied.Load(), "in-flight invocation completes after Stop")
	assert.Equal(t, int64(1), h.Runs())
}

func TestSlowInvocationsOverlap(t *testing.T) {
	var (
		current, peak atomic.Int32
		release       = make(chan struct{})
	)

	h := Start(func(ctx context.Context) error {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-release
		current.Add(-1)
		return nil
	}, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return peak.Load() >= 2 }, time.Second, time.Millisecond,
		"a slow tick must not delay scheduling of the next one")
	h.Stop()
	close(release)
	h.Wait()
}

func TestWithContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "view-7")
	got := make(chan interface{}, 1)

	h := Start(func(ctx context.Context) error {
		select {
		case got <- ctx.Value(key{}):
		default:
		}
		return nil
	}, time.Hour, WithContext(ctx))
	defer h.Stop()

	select {
	case v := <-got:
		assert.Equal(t, "view-7", v)
	case <-time.After(time.Second):
		t.Fatal("callback not invoked")
	}
}

func TestWithLogger(t *testing.T) {
	buf := logger.NewBufferLogger()
	var calls atomic.Int32

	h := Start(func(ctx context.Context) error {
		calls.Add(1)
		return stderrors.New("connection refused")
	}, time.Hour, WithLogger(buf), WithName("alerts"))
	defer h.Stop()

	require.Eventually(t, func() bool { return buf.Count("warn") == 1 }, time.Second, time.Millisecond)
	msgs := buf.Snapshot()
	assert.Equal(t, "alerts poll failed: connection refused", msgs[0].Message)
	assert.Equal(t, "alerts", h.Name())
}

func TestGroup(t *testing.T) {
	var g Group
	var calls atomic.Int32
	fn := func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}

	a := g.Add(Start(fn, 5*time.Millisecond))
	b := g.Add(Start(fn, 5*time.Millisecond))
	assert.Equal(t, 2, g.Len())

	g.Stop()
	g.Stop()

	assert.True(t, a.isStopped())
	assert.True(t, b.isStopped())
	assert.Zero(t, g.Len())
}
