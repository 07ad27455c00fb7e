package showreel

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WheelEvent is a wheel tick. DeltaY > 0 means scrolling down (advancing
// through content), matching the usual document convention rather than
// Ebitengine's raw wheel sign.
type WheelEvent struct {
	X, Y           float64
	DeltaX, DeltaY float64

	defaultPrevented bool
}

// PreventDefault marks the event as consumed so it is not forwarded to the
// active scene.
func (e *WheelEvent) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a handler consumed the event.
func (e *WheelEvent) DefaultPrevented() bool { return e.defaultPrevented }

// TouchEvent is a single touch point update.
type TouchEvent struct {
	ID   int
	X, Y float64

	defaultPrevented bool
}

// PreventDefault marks the event as consumed.
func (e *TouchEvent) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a handler consumed the event.
func (e *TouchEvent) DefaultPrevented() bool { return e.defaultPrevented }

// InputEventType identifies a kind of routed input.
type InputEventType uint8

const (
	InputWheel       InputEventType = iota // wheel tick
	InputTouchStart                        // finger down
	InputTouchMove                         // finger moved while down
	InputTouchEnd                          // finger lifted
	InputPointerMove                       // cursor moved
)

// --- Handler registry ---

type wheelHandler struct {
	id uint32
	fn func(*WheelEvent)
}

type touchHandler struct {
	id uint32
	fn func(*TouchEvent)
}

type pointerHandler struct {
	id uint32
	fn func(x, y float64)
}

type handlerRegistry struct {
	wheel       []wheelHandler
	touchStart  []touchHandler
	touchMove   []touchHandler
	touchEnd    []touchHandler
	pointerMove []pointerHandler
	nextID      uint32
}

// CallbackHandle allows removing a registered input callback.
type CallbackHandle struct {
	id     uint32
	router *InputRouter
	event  InputEventType
}

// Remove unregisters this callback so it no longer fires. Removing twice is a
// no-op.
func (h CallbackHandle) Remove() {
	if h.router == nil {
		return
	}
	r := h.router
	r.mu.Lock()
	defer r.mu.Unlock()
	switch h.event {
	case InputWheel:
		r.handlers.wheel = removeHandler(r.handlers.wheel, h.id, func(w wheelHandler) uint32 { return w.id })
	case InputTouchStart:
		r.handlers.touchStart = removeHandler(r.handlers.touchStart, h.id, touchID)
	case InputTouchMove:
		r.handlers.touchMove = removeHandler(r.handlers.touchMove, h.id, touchID)
	case InputTouchEnd:
		r.handlers.touchEnd = removeHandler(r.handlers.touchEnd, h.id, touchID)
	case InputPointerMove:
		r.handlers.pointerMove = removeHandler(r.handlers.pointerMove, h.id, func(p pointerHandler) uint32 { return p.id })
	}
}

func touchID(t touchHandler) uint32 { return t.id }

// removeHandler deletes the entry with the given id, keeping order. The slice
// is copied rather than shifted in place so a dispatch already iterating a
// previous snapshot is unaffected.
func removeHandler[T any](s []T, id uint32, idOf func(T) uint32) []T {
	for i := range s {
		if idOf(s[i]) == id {
			out := make([]T, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...)
		}
	}
	return s
}

// InputRouter polls wheel, touch and cursor input once per frame and
// dispatches it to registered handlers. Wheel events no handler consumed, and
// all cursor moves, are passed on to the fallthrough targets (the active
// scene, when mounted by a Stage).
type InputRouter struct {
	mu       sync.Mutex
	handlers handlerRegistry

	// Fallthrough targets, called after the registered handlers.
	wheelFallthrough   func(*WheelEvent)
	pointerFallthrough func(x, y float64)

	injectQueue []syntheticEvent

	touchIDs   []ebiten.TouchID
	cursorX    int
	cursorY    int
	cursorSeen bool
}

// NewInputRouter creates a router with no handlers.
func NewInputRouter() *InputRouter {
	return &InputRouter{}
}

func (r *InputRouter) register() uint32 {
	r.handlers.nextID++
	return r.handlers.nextID
}

// OnWheel registers a wheel handler.
func (r *InputRouter) OnWheel(fn func(*WheelEvent)) CallbackHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.register()
	r.handlers.wheel = append(r.handlers.wheel, wheelHandler{id: id, fn: fn})
	return CallbackHandle{id: id, router: r, event: InputWheel}
}

// OnTouchStart registers a handler for fingers touching down.
func (r *InputRouter) OnTouchStart(fn func(*TouchEvent)) CallbackHandle {
	return r.onTouch(InputTouchStart, fn)
}

// OnTouchMove registers a handler for touch moves.
func (r *InputRouter) OnTouchMove(fn func(*TouchEvent)) CallbackHandle {
	return r.onTouch(InputTouchMove, fn)
}

// OnTouchEnd registers a handler for fingers lifting.
func (r *InputRouter) OnTouchEnd(fn func(*TouchEvent)) CallbackHandle {
	return r.onTouch(InputTouchEnd, fn)
}

func (r *InputRouter) onTouch(event InputEventType, fn func(*TouchEvent)) CallbackHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.register()
	h := touchHandler{id: id, fn: fn}
	switch event {
	case InputTouchStart:
		r.handlers.touchStart = append(r.handlers.touchStart, h)
	case InputTouchMove:
		r.handlers.touchMove = append(r.handlers.touchMove, h)
	case InputTouchEnd:
		r.handlers.touchEnd = append(r.handlers.touchEnd, h)
	}
	return CallbackHandle{id: id, router: r, event: event}
}

// OnPointerMove registers a cursor move handler.
func (r *InputRouter) OnPointerMove(fn func(x, y float64)) CallbackHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.register()
	r.handlers.pointerMove = append(r.handlers.pointerMove, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, router: r, event: InputPointerMove}
}

// SetFallthrough sets where unconsumed wheel events and cursor moves go.
func (r *InputRouter) SetFallthrough(wheel func(*WheelEvent), pointer func(x, y float64)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wheelFallthrough = wheel
	r.pointerFallthrough = pointer
}

// HandlerCount returns the number of registered handlers of the given type.
func (r *InputRouter) HandlerCount(event InputEventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch event {
	case InputWheel:
		return len(r.handlers.wheel)
	case InputTouchStart:
		return len(r.handlers.touchStart)
	case InputTouchMove:
		return len(r.handlers.touchMove)
	case InputTouchEnd:
		return len(r.handlers.touchEnd)
	case InputPointerMove:
		return len(r.handlers.pointerMove)
	}
	return 0
}

// --- Dispatch ---

// DispatchWheel runs the wheel handlers, then forwards the event to the
// fallthrough target unless a handler consumed it.
func (r *InputRouter) DispatchWheel(ev *WheelEvent) {
	r.mu.Lock()
	hs := r.handlers.wheel
	fallthroughFn := r.wheelFallthrough
	r.mu.Unlock()

	for _, h := range hs {
		h.fn(ev)
	}
	if !ev.DefaultPrevented() && fallthroughFn != nil {
		fallthroughFn(ev)
	}
}

// DispatchTouch runs the handlers registered for a touch event type.
func (r *InputRouter) DispatchTouch(event InputEventType, ev *TouchEvent) {
	r.mu.Lock()
	var hs []touchHandler
	switch event {
	case InputTouchStart:
		hs = r.handlers.touchStart
	case InputTouchMove:
		hs = r.handlers.touchMove
	case InputTouchEnd:
		hs = r.handlers.touchEnd
	}
	r.mu.Unlock()

	for _, h := range hs {
		h.fn(ev)
	}
}

// DispatchPointerMove runs the cursor handlers and the fallthrough target.
func (r *InputRouter) DispatchPointerMove(x, y float64) {
	r.mu.Lock()
	hs := r.handlers.pointerMove
	fallthroughFn := r.pointerFallthrough
	r.mu.Unlock()

	for _, h := range hs {
		h.fn(x, y)
	}
	if fallthroughFn != nil {
		fallthroughFn(x, y)
	}
}

// --- Polling ---

// Update consumes one injected event if any are queued; otherwise it polls
// Ebitengine for wheel, touch and cursor input. Call once per frame from the
// game loop.
func (r *InputRouter) Update() {
	if r.processInjected() {
		return
	}
	r.pollWheel()
	r.pollTouches()
	r.pollCursor()
}

func (r *InputRouter) pollWheel() {
	dx, dy := ebiten.Wheel()
	if dx == 0 && dy == 0 {
		return
	}
	cx, cy := ebiten.CursorPosition()
	// Ebitengine reports positive Y when the wheel moves away from the user.
	r.DispatchWheel(&WheelEvent{
		X: float64(cx), Y: float64(cy),
		DeltaX: -dx, DeltaY: -dy,
	})
}

func (r *InputRouter) pollTouches() {
	var pressed []ebiten.TouchID
	pressed = inpututil.AppendJustPressedTouchIDs(pressed)
	for _, id := range pressed {
		x, y := ebiten.TouchPosition(id)
		r.DispatchTouch(InputTouchStart, &TouchEvent{ID: int(id), X: float64(x), Y: float64(y)})
	}

	r.touchIDs = ebiten.AppendTouchIDs(r.touchIDs[:0])
	for _, id := range r.touchIDs {
		if inpututil.IsTouchJustReleased(id) {
			continue
		}
		x, y := ebiten.TouchPosition(id)
		px, py := inpututil.TouchPositionInPreviousTick(id)
		if x == px && y == py {
			continue
		}
		r.DispatchTouch(InputTouchMove, &TouchEvent{ID: int(id), X: float64(x), Y: float64(y)})
	}

	var released []ebiten.TouchID
	released = inpututil.AppendJustReleasedTouchIDs(released)
	for _, id := range released {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		r.DispatchTouch(InputTouchEnd, &TouchEvent{ID: int(id), X: float64(x), Y: float64(y)})
	}
}

func (r *InputRouter) pollCursor() {
	x, y := ebiten.CursorPosition()
	if r.cursorSeen && x == r.cursorX && y == r.cursorY {
		return
	}
	r.cursorX, r.cursorY, r.cursorSeen = x, y, true
	r.DispatchPointerMove(float64(x), float64(y))
}
