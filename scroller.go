package showreel

import (
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/tanema/gween/ease"
	"golang.org/x/sync/semaphore"
)

// Anchor is an addressable content region a StepScroller can scroll to.
// Bounds are in content coordinates.
type Anchor struct {
	ID     string
	Bounds Rect
}

// ScrollConfig controls step navigation.
type ScrollConfig struct {
	// Duration of one eased step.
	Duration time.Duration `mapstructure:"duration"`
	// TouchThreshold is the vertical travel in pixels a touch must exceed
	// before it counts as a step.
	TouchThreshold float64 `mapstructure:"touch_threshold"`
	// InitialDelay before the first jump to anchor 0, so layout can settle.
	InitialDelay time.Duration `mapstructure:"initial_delay"`
}

const (
	defaultScrollDuration = 700 * time.Millisecond
	defaultTouchThreshold = 20
	defaultInitialDelay   = 100 * time.Millisecond
)

func (c ScrollConfig) withDefaults() ScrollConfig {
	if c.Duration <= 0 {
		c.Duration = defaultScrollDuration
	}
	if c.TouchThreshold <= 0 {
		c.TouchThreshold = defaultTouchThreshold
	}
	if c.InitialDelay < 0 {
		c.InitialDelay = defaultInitialDelay
	}
	return c
}

// StepScroller turns wheel and touch input into discrete, animated jumps
// between anchors, one at a time. Input arriving while a jump is animating is
// dropped, not queued.
//
// The anchor list is a snapshot taken at construction. When content changes,
// Close the scroller and build a new one.
type StepScroller struct {
	anchors []Anchor
	view    ScrollView
	cfg     ScrollConfig
	log     *slog.Logger

	index int
	// permit is held for the whole of an animated jump.
	permit     *semaphore.Weighted
	anim       *tweenValue
	animOffset float64

	handles      []CallbackHandle
	touchRefY    float64
	touchActive  bool
	touchDecided bool

	initialPending bool
	initialDelay   float64

	onStep func(index int)
	closed bool
}

// NewStepScroller binds a scroller to anchors and input. With no anchors the
// scroller is inert: no handlers are registered and navigation does nothing.
// A nil input leaves navigation to direct Next/Prev calls.
func NewStepScroller(anchors []Anchor, view ScrollView, input *InputRouter, cfg ScrollConfig) *StepScroller {
	s := &StepScroller{
		anchors: slices.Clone(anchors),
		view:    view,
		cfg:     cfg.withDefaults(),
		log:     slog.Default().With("component", "scroller"),
		permit:  semaphore.NewWeighted(1),
	}
	if len(s.anchors) == 0 {
		return s
	}
	if input != nil {
		s.handles = append(s.handles,
			input.OnWheel(s.handleWheel),
			input.OnTouchStart(s.handleTouchStart),
			input.OnTouchMove(s.handleTouchMove),
			input.OnTouchEnd(s.handleTouchEnd),
		)
	}
	s.initialPending = true
	s.initialDelay = s.cfg.InitialDelay.Seconds()
	return s
}

// SetLogger replaces the scroller's logger.
func (s *StepScroller) SetLogger(l *slog.Logger) {
	s.log = l
}

// SetStepObserver registers fn to be called with the new index after each
// accepted step.
func (s *StepScroller) SetStepObserver(fn func(index int)) {
	s.onStep = fn
}

// Index returns the current anchor index.
func (s *StepScroller) Index() int { return s.index }

// Len returns the number of anchors.
func (s *StepScroller) Len() int { return len(s.anchors) }

// Animating reports whether a jump is in flight.
func (s *StepScroller) Animating() bool { return s.anim != nil }

// Inert reports whether the scroller was built without anchors.
func (s *StepScroller) Inert() bool { return len(s.anchors) == 0 }

// Next moves one anchor forward. It returns false without effect at the last
// anchor, while a jump is animating, or once closed.
func (s *StepScroller) Next() bool { return s.step(1) }

// Prev moves one anchor back. It returns false without effect at the first
// anchor, while a jump is animating, or once closed.
func (s *StepScroller) Prev() bool { return s.step(-1) }

func (s *StepScroller) step(dir int) bool {
	if s.closed || s.Inert() {
		return false
	}
	target := s.index + dir
	if target < 0 || target >= len(s.anchors) {
		return false
	}
	if !s.permit.TryAcquire(1) {
		return false
	}
	s.initialPending = false
	s.log.Debug("step", "from", s.index, "to", target)
	s.index = target
	s.animateTo(target)
	if s.onStep != nil {
		s.onStep(target)
	}
	return true
}

// animateTo starts the eased jump. The caller holds the permit.
func (s *StepScroller) animateTo(i int) {
	s.animOffset = s.view.ScrollOffset()
	s.anim = newTween(&s.animOffset, s.targetOffset(i), float32(s.cfg.Duration.Seconds()), ease.OutCubic)
}

// targetOffset centers anchor i vertically in the viewport.
func (s *StepScroller) targetOffset(i int) float64 {
	return s.anchors[i].Bounds.CenterY() - s.view.ViewportHeight()/2
}

// settleAt places the view on anchor i without animating and drops the
// pending initial jump. It does nothing while a jump is in flight.
func (s *StepScroller) settleAt(i int) {
	if s.closed || s.Inert() || s.anim != nil {
		return
	}
	s.index = max(0, min(i, len(s.anchors)-1))
	s.initialPending = false
	s.view.SetScrollOffset(s.targetOffset(s.index))
}

// Update advances the pending initial jump and any animation by dt seconds.
// Only the animation writes the view offset while a jump is in flight.
func (s *StepScroller) Update(dt float64) {
	if s.closed || s.Inert() {
		return
	}
	if s.initialPending {
		s.initialDelay -= dt
		if s.initialDelay <= 0 && s.permit.TryAcquire(1) {
			s.initialPending = false
			s.animateTo(s.index)
		}
	}
	if s.anim == nil {
		return
	}
	done := s.anim.update(float32(dt))
	s.view.SetScrollOffset(s.animOffset)
	if done {
		s.anim = nil
		s.permit.Release(1)
	}
}

// Close removes every input handler this scroller registered and abandons an
// animation in flight. Safe to call more than once.
func (s *StepScroller) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, h := range s.handles {
		h.Remove()
	}
	s.handles = nil
	s.initialPending = false
	if s.anim != nil {
		s.anim = nil
		s.permit.Release(1)
	}
}

// --- Input handlers ---

func (s *StepScroller) handleWheel(ev *WheelEvent) {
	if ev.DeltaY == 0 {
		return
	}
	ev.PreventDefault()
	if ev.DeltaY > 0 {
		s.Next()
	} else {
		s.Prev()
	}
}

func (s *StepScroller) handleTouchStart(ev *TouchEvent) {
	s.touchRefY = ev.Y
	s.touchActive = true
	s.touchDecided = false
}

func (s *StepScroller) handleTouchMove(ev *TouchEvent) {
	if !s.touchActive {
		return
	}
	if s.touchDecided {
		ev.PreventDefault()
		return
	}
	// Finger travelling up advances.
	delta := s.touchRefY - ev.Y
	if math.Abs(delta) <= s.cfg.TouchThreshold {
		return
	}
	ev.PreventDefault()
	s.touchDecided = true
	if delta > 0 {
		s.Next()
	} else {
		s.Prev()
	}
}

func (s *StepScroller) handleTouchEnd(*TouchEvent) {
	s.touchActive = false
	s.touchDecided = false
}
