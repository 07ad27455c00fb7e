package showreel

import "math"

// ScrollView is the scrollable surface a StepScroller drives.
type ScrollView interface {
	ScrollOffset() float64
	SetScrollOffset(y float64)
	ViewportHeight() float64
}

// Viewport is a vertical window onto content taller than the screen.
type Viewport struct {
	// Height is the visible height in pixels.
	Height float64

	// BoundsEnabled clamps the offset so the visible area stays within
	// [0, ContentHeight].
	BoundsEnabled bool
	// ContentHeight is the total content height used when BoundsEnabled.
	ContentHeight float64

	offset float64
}

// NewViewport creates an unbounded viewport of the given visible height.
func NewViewport(height float64) *Viewport {
	return &Viewport{Height: height}
}

// ScrollOffset returns the content Y shown at the top of the viewport.
func (v *Viewport) ScrollOffset() float64 {
	return v.offset
}

// SetScrollOffset moves the viewport, clamping when bounds are enabled.
func (v *Viewport) SetScrollOffset(y float64) {
	v.offset = y
	if v.BoundsEnabled {
		v.clampToBounds()
	}
}

// ViewportHeight returns the visible height.
func (v *Viewport) ViewportHeight() float64 {
	return v.Height
}

// SetContentHeight enables bounds clamping against the given content height.
func (v *Viewport) SetContentHeight(h float64) {
	v.BoundsEnabled = true
	v.ContentHeight = h
	v.clampToBounds()
}

// Reset moves back to the top.
func (v *Viewport) Reset() {
	v.offset = 0
}

// clampToBounds restricts the offset so the visible area stays within the
// content. Content shorter than the viewport pins the offset to 0.
func (v *Viewport) clampToBounds() {
	maxOffset := v.ContentHeight - v.Height
	if maxOffset < 0 {
		v.offset = 0
		return
	}
	v.offset = math.Max(0, math.Min(v.offset, maxOffset))
}
