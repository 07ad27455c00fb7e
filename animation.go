package showreel

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// tweenValue animates a single float64 toward a target. Call update(dt) each
// frame; the current value is written to the target field and Done is set
// once the duration has elapsed.
type tweenValue struct {
	tween *gween.Tween
	field *float64
	to    float64
	done  bool
}

// newTween starts a tween of *field from its current value to `to` over
// duration seconds. A non-positive duration completes on the first update.
func newTween(field *float64, to float64, duration float32, fn ease.TweenFunc) *tweenValue {
	if fn == nil {
		fn = ease.Linear
	}
	return &tweenValue{
		tween: gween.New(float32(*field), float32(to), duration, fn),
		field: field,
		to:    to,
	}
}

// update advances the tween by dt seconds and reports whether it finished.
func (t *tweenValue) update(dt float32) bool {
	if t.done {
		return true
	}
	val, finished := t.tween.Update(dt)
	if finished {
		// Land exactly on the target; gween works in float32.
		*t.field = t.to
		t.done = true
		return true
	}
	*t.field = float64(val)
	return false
}

// Treatment describes how a content block enters or leaves focus.
type Treatment struct {
	// Duration in seconds.
	Duration float32
	// Ease shapes the alpha and shift curves.
	Ease ease.TweenFunc
	// Shift is the vertical offset in pixels a block enters from. A block
	// leaving focus moves the same distance the other way.
	Shift float64
}

// DefaultTreatments maps the class-like tags on content blocks to visual
// treatments. Unknown or empty tags use the "fade" treatment.
var DefaultTreatments = map[string]Treatment{
	"fade":       {Duration: 0.6, Ease: ease.Linear},
	"fade-quick": {Duration: 0.25, Ease: ease.Linear},
	"fade-up":    {Duration: 0.8, Ease: ease.OutCubic, Shift: 24},
	"fade-down":  {Duration: 0.8, Ease: ease.OutCubic, Shift: -24},
	"fade-slow":  {Duration: 1.4, Ease: ease.InOutQuad},
}
