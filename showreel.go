package showreel

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorBlack is the default overlay color.
var ColorBlack = Color{0, 0, 0, 1}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// CenterY returns the vertical midpoint of the rectangle.
func (r Rect) CenterY() float64 {
	return r.Y + r.Height/2
}

// State is the lifecycle position of a scene instance.
type State uint8

const (
	StateUnbuilt     State = iota // factory has not produced an instance
	StateLoaded                   // Load completed
	StateInitialized              // Init completed; instance is startable
	StateStarted                  // receives Animate, Draw and input forwarding
	StateStopped                  // constructed but not receiving frames
	StateDisposed                 // terminal; slot cleared
)

var stateNames = [...]string{"unbuilt", "loaded", "initialized", "started", "stopped", "disposed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// live reports whether an instance in this state holds resources that can be
// resized or disposed.
func (s State) live() bool {
	return s == StateInitialized || s == StateStarted || s == StateStopped
}

// TransitionPhase identifies where a TransitionCoordinator is in its
// fade / switch / fade sequence.
type TransitionPhase uint8

const (
	PhaseIdle      TransitionPhase = iota // no transition in flight
	PhaseFadingIn                         // overlay opacity 0 -> 1
	PhaseSwitching                        // SceneManager.Show in progress
	PhaseFadingOut                        // overlay opacity 1 -> 0
)

var phaseNames = [...]string{"idle", "fading-in", "switching", "fading-out"}

func (p TransitionPhase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// StageEventType identifies a kind of StageEvent.
type StageEventType uint8

const (
	EventSceneState      StageEventType = iota // a scene changed lifecycle State
	EventTransitionPhase                       // the transition coordinator changed phase
	EventAnchorStep                            // the step scroller moved to a new anchor
	EventSwitchFailed                          // a scene switch returned an error
)

// StageEvent carries orchestration events for an optional EventSink.
type StageEvent struct {
	Type  StageEventType
	Scene string
	State State
	Phase TransitionPhase
	// Anchor is the target index (valid for EventAnchorStep).
	Anchor int
	// Err is set for EventSwitchFailed.
	Err error
}

// EventSink receives stage events. When set on a Stage, lifecycle, transition
// and navigation events are forwarded to it (see the ecs sub-module).
type EventSink interface {
	EmitEvent(event StageEvent)
}
