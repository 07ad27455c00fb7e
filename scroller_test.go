package showreel

import (
	"math"
	"testing"
	"time"
)

// pageAnchors returns n anchors of one viewport height each, stacked.
func pageAnchors(n int, page float64) []Anchor {
	out := make([]Anchor, n)
	for i := range out {
		out[i] = Anchor{Bounds: Rect{Y: float64(i) * page, Width: 800, Height: page}}
	}
	return out
}

func newTestScroller(t *testing.T, n int) (*StepScroller, *Viewport, *InputRouter) {
	t.Helper()
	view := NewViewport(600)
	router := NewInputRouter()
	s := NewStepScroller(pageAnchors(n, 600), view, router, ScrollConfig{
		Duration:       100 * time.Millisecond,
		TouchThreshold: 20,
	})
	return s, view, router
}

// settle runs frames until the scroller's animation completes.
func settle(t *testing.T, s *StepScroller) {
	t.Helper()
	for i := 0; s.Animating(); i++ {
		if i > 100 {
			t.Fatal("animation did not finish")
		}
		s.Update(1.0 / 60)
	}
}

func TestScrollerStepsAreClamped(t *testing.T) {
	s, view, _ := newTestScroller(t, 3)

	for _, want := range []int{1, 2} {
		if !s.Next() {
			t.Fatalf("Next() toward %d returned false", want)
		}
		settle(t, s)
		if s.Index() != want {
			t.Errorf("Index() = %d, want %d", s.Index(), want)
		}
	}
	if s.Next() {
		t.Error("Next() at the last anchor should return false")
	}
	if s.Index() != 2 {
		t.Errorf("Index() = %d, want 2", s.Index())
	}
	if s.Animating() {
		t.Error("a rejected step should not animate")
	}
	if math.Abs(view.ScrollOffset()-1200) > 1e-9 {
		t.Errorf("offset = %v, want 1200", view.ScrollOffset())
	}
}

func TestScrollerPrevAtFirstIsNoop(t *testing.T) {
	s, view, _ := newTestScroller(t, 3)
	if s.Prev() {
		t.Error("Prev() at index 0 should return false")
	}
	if s.Index() != 0 || s.Animating() || view.ScrollOffset() != 0 {
		t.Errorf("Prev() at 0 changed state: index %d, animating %v, offset %v",
			s.Index(), s.Animating(), view.ScrollOffset())
	}
}

func TestScrollerIgnoresStepsWhileAnimating(t *testing.T) {
	s, _, _ := newTestScroller(t, 4)
	if !s.Next() {
		t.Fatal("first Next() should be accepted")
	}
	s.Update(0.01)
	if s.Next() {
		t.Error("Next() during animation should be rejected")
	}
	if s.Prev() {
		t.Error("Prev() during animation should be rejected")
	}
	if s.Index() != 1 {
		t.Errorf("Index() = %d, want 1", s.Index())
	}
	settle(t, s)
	if !s.Next() {
		t.Error("Next() after the animation should be accepted")
	}
}

func TestScrollerCentersAnchor(t *testing.T) {
	view := NewViewport(400)
	anchors := []Anchor{
		{ID: "intro", Bounds: Rect{Y: 0, Height: 100}},
		{ID: "detail", Bounds: Rect{Y: 900, Height: 200}},
	}
	s := NewStepScroller(anchors, view, nil, ScrollConfig{Duration: 50 * time.Millisecond})
	s.Next()
	settle(t, s)

	// Center 1000 minus half the viewport.
	if got := view.ScrollOffset(); math.Abs(got-800) > 1e-9 {
		t.Errorf("offset = %v, want 800", got)
	}
}

func TestScrollerEasesOut(t *testing.T) {
	s, view, _ := newTestScroller(t, 2)
	s.Next()
	s.Update(0.05) // half of the duration

	// Ease-out covers more than half the distance in the first half.
	if got := view.ScrollOffset(); got <= 300 || got >= 600 {
		t.Errorf("offset at half time = %v, want in (300, 600)", got)
	}
}

func TestScrollerInitialJump(t *testing.T) {
	view := NewViewport(400)
	anchors := []Anchor{{Bounds: Rect{Y: 500, Height: 400}}, {Bounds: Rect{Y: 900, Height: 400}}}
	s := NewStepScroller(anchors, view, nil, ScrollConfig{
		Duration:     200 * time.Millisecond,
		InitialDelay: 100 * time.Millisecond,
	})

	s.Update(0.05)
	if s.Animating() {
		t.Fatal("initial jump started before the delay elapsed")
	}
	s.Update(0.06)
	if !s.Animating() {
		t.Fatal("initial jump should start once the delay elapsed")
	}
	settle(t, s)
	if got := view.ScrollOffset(); math.Abs(got-500) > 1e-9 {
		t.Errorf("offset = %v, want 500", got)
	}
	if s.Index() != 0 {
		t.Errorf("Index() = %d, want 0", s.Index())
	}
}

func TestScrollerStepCancelsInitialJump(t *testing.T) {
	s, view, _ := newTestScroller(t, 3)
	s.Next()
	settle(t, s)
	s.Update(1)
	if s.Animating() || s.Index() != 1 || view.ScrollOffset() != 600 {
		t.Errorf("pending initial jump ran after a step: index %d, offset %v", s.Index(), view.ScrollOffset())
	}
}

func TestScrollerSettleAt(t *testing.T) {
	s, view, _ := newTestScroller(t, 3)

	s.settleAt(2)
	if s.Index() != 2 || view.ScrollOffset() != 1200 {
		t.Errorf("after settleAt(2): index %d, offset %v; want 2, 1200", s.Index(), view.ScrollOffset())
	}
	s.Update(1)
	if s.Animating() || view.ScrollOffset() != 1200 {
		t.Errorf("initial jump still fired: animating %v, offset %v", s.Animating(), view.ScrollOffset())
	}

	s.settleAt(9)
	if s.Index() != 2 {
		t.Errorf("settleAt(9): index = %d, want 2", s.Index())
	}

	s.Prev()
	s.settleAt(0)
	if s.Index() != 1 {
		t.Errorf("settleAt during a jump: index = %d, want 1", s.Index())
	}
}

func TestScrollerStepObserver(t *testing.T) {
	s, _, _ := newTestScroller(t, 3)
	var got []int
	s.SetStepObserver(func(i int) { got = append(got, i) })

	s.Next()
	s.Next() // rejected
	settle(t, s)
	s.Prev()

	if len(got) != 2 || got[0] != 1 || got[1] != 0 {
		t.Errorf("observed %v, want [1 0]", got)
	}
}

// --- Input ---

func TestScrollerWheel(t *testing.T) {
	s, _, router := newTestScroller(t, 3)

	still := &WheelEvent{}
	router.DispatchWheel(still)
	if still.DefaultPrevented() || s.Index() != 0 {
		t.Error("zero delta should be ignored")
	}

	down := &WheelEvent{DeltaY: 3}
	router.DispatchWheel(down)
	if !down.DefaultPrevented() {
		t.Error("wheel event should be consumed")
	}
	if s.Index() != 1 {
		t.Errorf("Index() = %d, want 1", s.Index())
	}

	// A second tick mid-animation is consumed but does nothing.
	again := &WheelEvent{DeltaY: 3}
	router.DispatchWheel(again)
	if !again.DefaultPrevented() || s.Index() != 1 {
		t.Errorf("mid-animation tick: prevented %v, index %d", again.DefaultPrevented(), s.Index())
	}

	settle(t, s)
	router.DispatchWheel(&WheelEvent{DeltaY: -1})
	if s.Index() != 0 {
		t.Errorf("Index() = %d, want 0 after negative delta", s.Index())
	}
}

func TestScrollerWheelDoesNotFallThrough(t *testing.T) {
	_, _, router := newTestScroller(t, 2)
	forwarded := 0
	router.SetFallthrough(func(*WheelEvent) { forwarded++ }, nil)

	router.DispatchWheel(&WheelEvent{DeltaY: 1})
	if forwarded != 0 {
		t.Error("consumed wheel event reached the fallthrough")
	}
	router.DispatchWheel(&WheelEvent{})
	if forwarded != 1 {
		t.Errorf("forwarded = %d, want 1 for an unconsumed event", forwarded)
	}
}

func TestScrollerTouchThreshold(t *testing.T) {
	s, _, router := newTestScroller(t, 3)

	router.DispatchTouch(InputTouchStart, &TouchEvent{Y: 300})

	small := &TouchEvent{Y: 290}
	router.DispatchTouch(InputTouchMove, small)
	if s.Index() != 0 || small.DefaultPrevented() {
		t.Error("move under the threshold should not step")
	}

	exact := &TouchEvent{Y: 280}
	router.DispatchTouch(InputTouchMove, exact)
	if s.Index() != 0 {
		t.Error("move equal to the threshold should not step")
	}

	big := &TouchEvent{Y: 250}
	router.DispatchTouch(InputTouchMove, big)
	if s.Index() != 1 || !big.DefaultPrevented() {
		t.Errorf("swipe up past the threshold: index %d, prevented %v", s.Index(), big.DefaultPrevented())
	}

	settle(t, s)
	rest := &TouchEvent{Y: 100}
	router.DispatchTouch(InputTouchMove, rest)
	if s.Index() != 1 {
		t.Errorf("one gesture stepped twice: index %d", s.Index())
	}
	if !rest.DefaultPrevented() {
		t.Error("the rest of a decided gesture should be consumed")
	}
	router.DispatchTouch(InputTouchEnd, &TouchEvent{Y: 100})

	// A fresh gesture can step again; swiping down goes back.
	router.DispatchTouch(InputTouchStart, &TouchEvent{Y: 100})
	router.DispatchTouch(InputTouchMove, &TouchEvent{Y: 160})
	if s.Index() != 0 {
		t.Errorf("swipe down: index %d, want 0", s.Index())
	}
}

func TestScrollerTouchMoveWithoutStart(t *testing.T) {
	s, _, router := newTestScroller(t, 3)
	router.DispatchTouch(InputTouchMove, &TouchEvent{Y: 0})
	if s.Index() != 0 {
		t.Error("move without a touch start should be ignored")
	}
}

func TestScrollerInjectedSwipe(t *testing.T) {
	s, _, router := newTestScroller(t, 3)
	router.InjectSwipe(400, 500, 300, 5)
	for router.Pending() > 0 {
		router.Update()
	}
	if s.Index() != 1 {
		t.Errorf("Index() = %d, want 1 after injected swipe", s.Index())
	}
}

// --- Empty and Close ---

func TestScrollerWithoutAnchorsIsInert(t *testing.T) {
	view := NewViewport(600)
	router := NewInputRouter()
	s := NewStepScroller(nil, view, router, ScrollConfig{})

	if !s.Inert() {
		t.Error("Inert() should be true without anchors")
	}
	for _, ev := range []InputEventType{InputWheel, InputTouchStart, InputTouchMove, InputTouchEnd} {
		if n := router.HandlerCount(ev); n != 0 {
			t.Errorf("HandlerCount(%d) = %d, want 0", ev, n)
		}
	}
	if s.Next() || s.Prev() {
		t.Error("navigation should be a no-op")
	}
	s.Update(1)
	if s.Animating() || view.ScrollOffset() != 0 {
		t.Error("inert scroller should not animate")
	}
	s.Close()
}

func TestScrollerCloseRemovesHandlers(t *testing.T) {
	s, _, router := newTestScroller(t, 3)
	if n := router.HandlerCount(InputWheel); n != 1 {
		t.Fatalf("HandlerCount(wheel) = %d, want 1", n)
	}

	s.Next()
	s.Close()
	s.Close()

	for _, ev := range []InputEventType{InputWheel, InputTouchStart, InputTouchMove, InputTouchEnd} {
		if n := router.HandlerCount(ev); n != 0 {
			t.Errorf("HandlerCount(%d) = %d after Close, want 0", ev, n)
		}
	}
	if s.Animating() {
		t.Error("Close should abandon the animation")
	}
	if s.Next() {
		t.Error("Next() after Close should return false")
	}
}

func TestScrollerReplacementDoesNotStackHandlers(t *testing.T) {
	view := NewViewport(600)
	router := NewInputRouter()
	cfg := ScrollConfig{Duration: 50 * time.Millisecond}

	var s *StepScroller
	for range 5 {
		if s != nil {
			s.Close()
		}
		s = NewStepScroller(pageAnchors(3, 600), view, router, cfg)
	}
	if n := router.HandlerCount(InputWheel); n != 1 {
		t.Errorf("HandlerCount(wheel) = %d, want 1", n)
	}

	router.DispatchWheel(&WheelEvent{DeltaY: 1})
	if s.Index() != 1 {
		t.Errorf("Index() = %d, want a single step", s.Index())
	}
}

func TestScrollConfigDefaults(t *testing.T) {
	c := ScrollConfig{InitialDelay: -1}.withDefaults()
	if c.Duration != defaultScrollDuration {
		t.Errorf("Duration = %v, want %v", c.Duration, defaultScrollDuration)
	}
	if c.TouchThreshold != defaultTouchThreshold {
		t.Errorf("TouchThreshold = %v, want %v", c.TouchThreshold, float64(defaultTouchThreshold))
	}
	if c.InitialDelay != defaultInitialDelay {
		t.Errorf("InitialDelay = %v, want %v", c.InitialDelay, defaultInitialDelay)
	}
}
