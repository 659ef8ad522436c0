// Throttling state machine for continuous slider and pointer-drag input
package interaction

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// State is the interaction phase of the current gesture.
type State int

const (
	// Idle means no gesture is in progress.
	Idle State = iota
	// Dragging means continuous input is arriving.
	Dragging
	// Quiescing means input has been released and a final render is pending
	// the quiescence delay.
	Quiescing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Quiescing:
		return "quiescing"
	}
	return "unknown"
}

const (
	// DefaultPreviewThreshold is the minimum interval between accepted
	// preview triggers during a drag.
	DefaultPreviewThreshold = 300 * time.Millisecond
	// DefaultQuiescenceDelay is how long input must stay silent after a
	// release before the single final render fires.
	DefaultQuiescenceDelay = 300 * time.Millisecond
)

// Throttle gates render triggers for a stream of input events. Continuous
// input never blocks on a resample: at most one preview trigger fires per
// threshold window, and exactly one final trigger fires per gesture, after
// the quiescence delay. The clock and timer factory are injected so the
// machine is testable with synthetic time.
type Throttle struct {
	mu           sync.Mutex
	state        State
	lastTrigger  time.Time
	threshold    time.Duration
	quiescence   time.Duration
	now          func() time.Time
	after        func(time.Duration, func()) *time.Timer
	quiesceTimer *time.Timer

	onPreview func()
	onFinal   func()

	logger *logrus.Logger
}

// Option configures a Throttle.
type Option func(*Throttle)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Throttle) { t.now = now }
}

// WithTimerFunc replaces the deferred-execution factory, for tests.
func WithTimerFunc(after func(time.Duration, func()) *time.Timer) Option {
	return func(t *Throttle) { t.after = after }
}

// WithDelays overrides the preview threshold and quiescence delay.
func WithDelays(threshold, quiescence time.Duration) Option {
	return func(t *Throttle) {
		t.threshold = threshold
		t.quiescence = quiescence
	}
}

// NewThrottle creates an idle throttle. onPreview and onFinal are invoked
// synchronously from the event that causes the transition; callers dispatch
// the actual render work off-thread.
func NewThrottle(logger *logrus.Logger, onPreview, onFinal func(), opts ...Option) *Throttle {
	t := &Throttle{
		state:      Idle,
		threshold:  DefaultPreviewThreshold,
		quiescence: DefaultQuiescenceDelay,
		now:        time.Now,
		after:      time.AfterFunc,
		onPreview:  onPreview,
		onFinal:    onFinal,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.lastTrigger = t.now()
	return t
}

// Move records a slider or pointer move event. It returns true when the
// event was accepted as a preview trigger, false when it was coalesced into
// the current window. A move during Quiescing cancels the pending final
// render and resumes the drag.
func (t *Throttle) Move() bool {
	t.mu.Lock()

	if t.state == Quiescing && t.quiesceTimer != nil {
		t.quiesceTimer.Stop()
		t.quiesceTimer = nil
	}
	t.state = Dragging

	now := t.now()
	if now.Sub(t.lastTrigger) < t.threshold {
		t.mu.Unlock()
		return false
	}
	t.lastTrigger = now
	t.mu.Unlock()

	t.logger.WithField("state", Dragging.String()).Debug("Preview render triggered")
	if t.onPreview != nil {
		t.onPreview()
	}
	return true
}

// Release records the end of the gesture (slider released, pointer button
// up) and schedules the final render after the quiescence delay.
func (t *Throttle) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Dragging {
		return
	}
	t.state = Quiescing
	if t.quiesceTimer != nil {
		t.quiesceTimer.Stop()
	}
	t.quiesceTimer = t.after(t.quiescence, t.finalize)
	t.logger.WithField("delay_ms", t.quiescence.Milliseconds()).Debug("Final render scheduled")
}

// finalize fires when the quiescence delay elapses with no interim input.
func (t *Throttle) finalize() {
	t.mu.Lock()
	if t.state != Quiescing {
		// A new move event resumed the drag; this trigger is stale.
		t.mu.Unlock()
		return
	}
	t.state = Idle
	t.quiesceTimer = nil
	t.mu.Unlock()

	t.logger.Debug("Gesture quiesced, final render triggered")
	if t.onFinal != nil {
		t.onFinal()
	}
}

// Reset returns the machine to Idle, cancelling any pending final render.
// Called when a new image is loaded.
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.quiesceTimer != nil {
		t.quiesceTimer.Stop()
		t.quiesceTimer = nil
	}
	t.state = Idle
	t.lastTrigger = t.now()
}

// State returns the current interaction phase.
func (t *Throttle) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Dragging reports whether continuous input is in progress. The session uses
// this to decide which display buffer is valid and whether a landed preview
// result is still applicable.
func (t *Throttle) IsDragging() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == Dragging
}
