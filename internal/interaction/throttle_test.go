package interaction

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeClock is a manually advanced clock for deterministic throttle tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// timerCapture records deferred callbacks instead of scheduling them, so
// tests decide when (and whether) the quiescence delay elapses.
type timerCapture struct {
	mu        sync.Mutex
	callbacks []func()
}

func (tc *timerCapture) After(d time.Duration, f func()) *time.Timer {
	tc.mu.Lock()
	tc.callbacks = append(tc.callbacks, f)
	tc.mu.Unlock()
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	return timer
}

func (tc *timerCapture) FireAll() {
	tc.mu.Lock()
	cbs := tc.callbacks
	tc.callbacks = nil
	tc.mu.Unlock()
	for _, f := range cbs {
		f()
	}
}

func (tc *timerCapture) Scheduled() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.callbacks)
}

type counters struct {
	mu       sync.Mutex
	previews int
	finals   int
}

func (c *counters) preview() {
	c.mu.Lock()
	c.previews++
	c.mu.Unlock()
}

func (c *counters) final() {
	c.mu.Lock()
	c.finals++
	c.mu.Unlock()
}

func newTestThrottle(t *testing.T) (*Throttle, *fakeClock, *timerCapture, *counters) {
	t.Helper()
	clock := newFakeClock()
	timers := &timerCapture{}
	n := &counters{}
	th := NewThrottle(testLogger(), n.preview, n.final,
		WithClock(clock.Now),
		WithTimerFunc(timers.After),
	)
	return th, clock, timers, n
}

func TestFirstMoveWithinWindowCoalesced(t *testing.T) {
	th, clock, _, n := newTestThrottle(t)

	clock.Advance(100 * time.Millisecond)
	assert.False(t, th.Move())
	assert.Equal(t, Dragging, th.State())
	assert.Equal(t, 0, n.previews)
}

func TestPreviewCoalescingBound(t *testing.T) {
	th, clock, _, n := newTestThrottle(t)

	// 12 moves at 100ms spacing against a 300ms threshold: a trigger fires
	// only when a full window has elapsed since the last one, so moves at
	// +300, +600, +900 and +1200 are accepted and the rest coalesce.
	accepted := 0
	for i := 0; i < 12; i++ {
		clock.Advance(100 * time.Millisecond)
		if th.Move() {
			accepted++
		}
	}

	assert.Equal(t, 4, accepted)
	assert.Equal(t, 4, n.previews)
	assert.Equal(t, Dragging, th.State())
}

func TestSlowMovesAllAccepted(t *testing.T) {
	th, clock, _, n := newTestThrottle(t)

	for i := 0; i < 5; i++ {
		clock.Advance(500 * time.Millisecond)
		assert.True(t, th.Move())
	}
	assert.Equal(t, 5, n.previews)
}

func TestExactlyOneFinalPerGesture(t *testing.T) {
	th, clock, timers, n := newTestThrottle(t)

	clock.Advance(400 * time.Millisecond)
	th.Move()
	th.Release()
	require.Equal(t, Quiescing, th.State())
	require.Equal(t, 1, timers.Scheduled())

	timers.FireAll()
	assert.Equal(t, 1, n.finals)
	assert.Equal(t, Idle, th.State())

	// Firing again with no new gesture must not produce another final.
	timers.FireAll()
	assert.Equal(t, 1, n.finals)
}

func TestMoveDuringQuiescenceCancelsFinal(t *testing.T) {
	th, clock, timers, n := newTestThrottle(t)

	clock.Advance(400 * time.Millisecond)
	th.Move()
	th.Release()
	require.Equal(t, Quiescing, th.State())

	// Input resumes before the delay elapses; the gesture continues.
	clock.Advance(50 * time.Millisecond)
	th.Move()
	assert.Equal(t, Dragging, th.State())

	// The stale deferred callback fires anyway (a real timer may already be
	// in flight); it must not trigger a final mid-drag.
	timers.FireAll()
	assert.Equal(t, 0, n.finals)
	assert.Equal(t, Dragging, th.State())
}

func TestReleaseWithoutDragIsNoop(t *testing.T) {
	th, _, timers, n := newTestThrottle(t)

	th.Release()
	assert.Equal(t, Idle, th.State())
	assert.Equal(t, 0, timers.Scheduled())
	assert.Equal(t, 0, n.finals)
}

func TestRepeatedGestures(t *testing.T) {
	th, clock, timers, n := newTestThrottle(t)

	for g := 0; g < 3; g++ {
		clock.Advance(400 * time.Millisecond)
		th.Move()
		th.Release()
		timers.FireAll()
	}

	assert.Equal(t, 3, n.previews)
	assert.Equal(t, 3, n.finals)
	assert.Equal(t, Idle, th.State())
}

func TestResetCancelsPendingFinal(t *testing.T) {
	th, clock, timers, n := newTestThrottle(t)

	clock.Advance(400 * time.Millisecond)
	th.Move()
	th.Release()
	require.Equal(t, Quiescing, th.State())

	th.Reset()
	assert.Equal(t, Idle, th.State())

	timers.FireAll()
	assert.Equal(t, 0, n.finals)

	// After a reset the throttle window restarts: an immediate move coalesces.
	clock.Advance(100 * time.Millisecond)
	assert.False(t, th.Move())
}

func TestIsDragging(t *testing.T) {
	th, clock, timers, _ := newTestThrottle(t)

	assert.False(t, th.IsDragging())
	clock.Advance(400 * time.Millisecond)
	th.Move()
	assert.True(t, th.IsDragging())
	th.Release()
	assert.False(t, th.IsDragging())
	timers.FireAll()
	assert.False(t, th.IsDragging())
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "dragging", Dragging.String())
	assert.Equal(t, "quiescing", Quiescing.String())
}
