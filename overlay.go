package showreel

import (
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// Overlay is the full-screen fade layer drawn above the active scene. It owns
// the single opacity value transitions animate. FadeTo starts a tween that is
// advanced by Update on the game loop; the returned channel is closed when the
// tween completes or is superseded.
type Overlay struct {
	mu      sync.Mutex
	color   Color
	opacity float64
	fade    *overlayFade
}

type overlayFade struct {
	tween *tweenValue
	done  chan struct{}
}

func (f *overlayFade) close() {
	select {
	case <-f.done:
	default:
		close(f.done)
	}
}

// pixel is a 1x1 white image scaled to the screen when drawing the overlay.
var (
	pixelOnce sync.Once
	pixel     *ebiten.Image
)

func whitePixel() *ebiten.Image {
	pixelOnce.Do(func() {
		pixel = ebiten.NewImage(1, 1)
		pixel.Fill(Color{1, 1, 1, 1}.toRGBA())
	})
	return pixel
}

// NewOverlay creates a transparent overlay of the given color.
func NewOverlay(c Color) *Overlay {
	return &Overlay{color: c}
}

// Opacity returns the current overlay opacity in [0, 1].
func (o *Overlay) Opacity() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opacity
}

// Fading reports whether a fade tween is in progress.
func (o *Overlay) Fading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fade != nil
}

// FadeTo starts animating the opacity to target over d. Any fade already in
// progress is abandoned and its channel closed. A non-positive duration sets
// the opacity immediately and returns a closed channel.
func (o *Overlay) FadeTo(target float64, d time.Duration) <-chan struct{} {
	target = clamp01(target)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.fade != nil {
		o.fade.close()
		o.fade = nil
	}
	done := make(chan struct{})
	if d <= 0 {
		o.opacity = target
		close(done)
		return done
	}
	o.fade = &overlayFade{
		tween: newTween(&o.opacity, target, float32(d.Seconds()), ease.InOutQuad),
		done:  done,
	}
	return done
}

// Snap ends any fade in progress and sets the opacity directly.
func (o *Overlay) Snap(target float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fade != nil {
		o.fade.close()
		o.fade = nil
	}
	o.opacity = clamp01(target)
}

// Update advances the active fade by dt seconds.
func (o *Overlay) Update(dt float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fade == nil {
		return
	}
	if o.fade.tween.update(dt) {
		o.fade.close()
		o.fade = nil
	}
}

// Draw fills screen with the overlay color at the current opacity.
func (o *Overlay) Draw(screen *ebiten.Image) {
	o.mu.Lock()
	alpha := o.opacity * o.color.A
	c := o.color
	o.mu.Unlock()
	if alpha <= 0 {
		return
	}

	b := screen.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(b.Dx()), float64(b.Dy()))
	op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	op.ColorScale.Scale(float32(c.R*alpha), float32(c.G*alpha), float32(c.B*alpha), float32(alpha))
	screen.DrawImage(whitePixel(), op)
}
