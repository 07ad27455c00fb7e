package showreel

import (
	"math"
	"testing"
	"time"
)

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestOverlayFadeTo(t *testing.T) {
	o := NewOverlay(ColorBlack)
	done := o.FadeTo(1, time.Second)

	if !o.Fading() {
		t.Fatal("Fading() = false after FadeTo")
	}
	o.Update(0.5)
	if math.Abs(o.Opacity()-0.5) > 0.01 {
		t.Errorf("Opacity() = %v at halfway, want ~0.5", o.Opacity())
	}
	if isClosed(done) {
		t.Fatal("done closed before the fade finished")
	}

	o.Update(0.5)
	if o.Opacity() != 1 {
		t.Errorf("Opacity() = %v, want 1", o.Opacity())
	}
	if !isClosed(done) {
		t.Error("done not closed after the fade finished")
	}
	if o.Fading() {
		t.Error("Fading() = true after completion")
	}
}

func TestOverlayZeroDurationIsImmediate(t *testing.T) {
	o := NewOverlay(ColorBlack)
	done := o.FadeTo(0.7, 0)
	if !isClosed(done) {
		t.Error("zero-duration fade should return a closed channel")
	}
	if o.Opacity() != 0.7 || o.Fading() {
		t.Errorf("Opacity() = %v, Fading() = %v", o.Opacity(), o.Fading())
	}
}

func TestOverlayFadeSupersedes(t *testing.T) {
	o := NewOverlay(ColorBlack)
	first := o.FadeTo(1, time.Second)
	o.Update(0.25)
	second := o.FadeTo(0, time.Second)

	if !isClosed(first) {
		t.Error("superseded fade's channel should be closed")
	}
	if isClosed(second) {
		t.Error("new fade finished early")
	}
	// The new fade starts from where the old one stopped.
	if o.Opacity() <= 0 {
		t.Errorf("Opacity() = %v, want the interrupted value", o.Opacity())
	}
}

func TestOverlaySnap(t *testing.T) {
	o := NewOverlay(ColorBlack)
	done := o.FadeTo(1, time.Hour)
	o.Snap(1)
	if !isClosed(done) {
		t.Error("Snap should close the running fade's channel")
	}
	if o.Opacity() != 1 || o.Fading() {
		t.Errorf("after Snap: opacity %v, fading %v", o.Opacity(), o.Fading())
	}
	o.Update(1) // no fade: no-op
	if o.Opacity() != 1 {
		t.Error("Update without a fade changed opacity")
	}
}

func TestOverlayClampsTarget(t *testing.T) {
	o := NewOverlay(ColorBlack)
	o.FadeTo(3, 0)
	if o.Opacity() != 1 {
		t.Errorf("Opacity() = %v, want 1", o.Opacity())
	}
	o.Snap(-2)
	if o.Opacity() != 0 {
		t.Errorf("Opacity() = %v, want 0", o.Opacity())
	}
}
