// ABOUTME: Swipe-to-delete state machine for a single list row.
// ABOUTME: Tracks horizontal drag offset, animates snap-back or dismissal, and fires a delayed delete.
package gesture

import (
	"math"
	"sync"
	"time"
)

// State is the row's position in the swipe lifecycle.
type State int

const (
	// Idle rows rest at offset 0.
	Idle State = iota
	// Dragging rows follow the finger (or mouse).
	Dragging
	// Committing rows animate back to 0 after a release below the threshold.
	Committing
	// Dismissing rows animate off-screen and have a pending delete.
	Dismissing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committing:
		return "committing"
	case Dismissing:
		return "dismissing"
	default:
		return "unknown"
	}
}

// Outcome is the result of releasing a drag.
type Outcome int

const (
	// NoOutcome means Release was called without an active drag.
	NoOutcome Outcome = iota
	// SnapBack means the drag stayed within the threshold.
	SnapBack
	// Dismiss means the drag crossed the threshold and a delete is scheduled.
	Dismiss
)

// Defaults match the mobile row.
const (
	DefaultThreshold       = 80.0
	DefaultDismissDistance = 1000.0
	DefaultDeleteDelay     = 150 * time.Millisecond
)

// AfterFunc schedules f after d and returns a function that cancels it,
// reporting whether the call was prevented.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func realAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Swipe is the gesture state for one row. Methods other than the scheduled delete
// callback are expected to run on the UI goroutine.
type Swipe struct {
	threshold float64
	distance  float64
	delay     time.Duration
	frequency float64
	damping   float64
	afterFunc AfterFunc
	now       func() time.Time

	state  State
	offset float64
	anim   *motion

	onDismiss func()
	once      sync.Once
	stop      func() bool
}

// Option configures a Swipe.
type Option func(*Swipe)

// WithThreshold sets the distance a release must exceed to dismiss.
func WithThreshold(threshold float64) Option {
	return func(s *Swipe) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithDeleteDelay sets how long after a dismissing release the delete fires.
func WithDeleteDelay(d time.Duration) Option {
	return func(s *Swipe) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithDismissDistance sets how far off-screen a dismissed row travels.
func WithDismissDistance(distance float64) Option {
	return func(s *Swipe) {
		if distance > 0 {
			s.distance = distance
		}
	}
}

// WithSpring sets the angular frequency and damping ratio of the snap-back and
// dismiss spring. Higher frequencies settle faster; a damping of 1 never overshoots.
func WithSpring(frequency, damping float64) Option {
	return func(s *Swipe) {
		if frequency > 0 {
			s.frequency = frequency
		}
		if damping > 0 {
			s.damping = damping
		}
	}
}

// WithScheduler replaces time.AfterFunc, mainly for tests.
func WithScheduler(afterFunc AfterFunc) Option {
	return func(s *Swipe) {
		s.afterFunc = afterFunc
	}
}

// WithNow replaces time.Now for animation timing.
func WithNow(now func() time.Time) Option {
	return func(s *Swipe) {
		s.now = now
	}
}

// New creates an idle swipe that calls onDismiss once the delete delay has elapsed
// after a dismissing release.
func New(onDismiss func(), opts ...Option) *Swipe {
	s := &Swipe{
		threshold: DefaultThreshold,
		distance:  DefaultDismissDistance,
		delay:     DefaultDeleteDelay,
		frequency: DefaultFrequency,
		damping:   DefaultDamping,
		afterFunc: realAfterFunc,
		now:       time.Now,
		onDismiss: onDismiss,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Swipe) State() State { return s.state }

// Offset returns the current horizontal offset.
func (s *Swipe) Offset() float64 { return s.offset }

// Animating reports whether Advance still has frames to produce.
func (s *Swipe) Animating() bool { return s.anim != nil }

// Threshold returns the commit distance.
func (s *Swipe) Threshold() float64 { return s.threshold }

// Begin starts a drag. A row that is already dismissing ignores new drags.
func (s *Swipe) Begin() {
	if s.state == Dismissing {
		return
	}
	s.state = Dragging
	s.anim = nil
}

// Move sets the offset to the drag's total horizontal translation.
func (s *Swipe) Move(dx float64) {
	if s.state != Dragging {
		return
	}
	s.offset = dx
}

// Release ends the drag, deciding between snapping back and dismissing.
func (s *Swipe) Release() Outcome {
	if s.state != Dragging {
		return NoOutcome
	}

	if math.Abs(s.offset) > s.threshold {
		s.state = Dismissing
		s.animateTo(s.distance * sign(s.offset))
		s.stop = s.afterFunc(s.delay, s.fire)
		return Dismiss
	}

	s.state = Committing
	s.animateTo(0)
	return SnapBack
}

// Advance steps any running spring up to time now and returns the new offset.
func (s *Swipe) Advance(now time.Time) float64 {
	if s.anim == nil {
		return s.offset
	}

	value, rest := s.anim.step(s.offset, now)
	s.offset = value
	if rest {
		s.anim = nil
		if s.state == Committing {
			s.state = Idle
			s.offset = 0
		}
	}
	return s.offset
}

// Cancel stops a pending delete without running it. It reports whether a delete was prevented.
func (s *Swipe) Cancel() bool {
	if s.stop == nil {
		return false
	}
	return s.stop()
}

// Settle runs a pending delete immediately instead of waiting for the timer.
func (s *Swipe) Settle() bool {
	if s.state != Dismissing || s.stop == nil {
		return false
	}
	if !s.stop() {
		return false
	}
	s.fire()
	return true
}

func (s *Swipe) fire() {
	s.once.Do(func() {
		if s.onDismiss != nil {
			s.onDismiss()
		}
	})
}

func (s *Swipe) animateTo(target float64) {
	s.anim = newMotion(DefaultFPS, s.frequency, s.damping, target, s.now())
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
