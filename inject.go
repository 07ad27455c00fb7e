package showreel

// syntheticEvent is a single injected input event, consumed one per frame by
// InputRouter.Update in place of real input.
type syntheticEvent struct {
	kind   InputEventType
	id     int
	x, y   float64
	deltaY float64
}

// InjectWheel queues a wheel tick with the given vertical delta (positive
// advances).
func (r *InputRouter) InjectWheel(deltaY float64) {
	r.inject(syntheticEvent{kind: InputWheel, deltaY: deltaY})
}

// InjectTouchStart queues a finger-down at the given screen coordinates.
func (r *InputRouter) InjectTouchStart(x, y float64) {
	r.inject(syntheticEvent{kind: InputTouchStart, x: x, y: y})
}

// InjectTouchMove queues a finger move at the given screen coordinates.
func (r *InputRouter) InjectTouchMove(x, y float64) {
	r.inject(syntheticEvent{kind: InputTouchMove, x: x, y: y})
}

// InjectTouchEnd queues a finger-up at the given screen coordinates.
func (r *InputRouter) InjectTouchEnd(x, y float64) {
	r.inject(syntheticEvent{kind: InputTouchEnd, x: x, y: y})
}

// InjectSwipe queues a full vertical swipe: touch start at fromY, linearly
// interpolated moves over frames-2 intermediate frames, and touch end at toY.
// The sequence consumes `frames` frames; the minimum is 2.
func (r *InputRouter) InjectSwipe(x, fromY, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	r.InjectTouchStart(x, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		r.InjectTouchMove(x, fromY+(toY-fromY)*t)
	}
	r.InjectTouchEnd(x, toY)
}

// Pending returns the number of injected events not yet consumed.
func (r *InputRouter) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.injectQueue)
}

func (r *InputRouter) inject(ev syntheticEvent) {
	r.mu.Lock()
	r.injectQueue = append(r.injectQueue, ev)
	r.mu.Unlock()
}

// processInjected pops one event from the inject queue and dispatches it.
// Returns true if an event was consumed (real input should be skipped).
func (r *InputRouter) processInjected() bool {
	r.mu.Lock()
	if len(r.injectQueue) == 0 {
		r.mu.Unlock()
		return false
	}
	ev := r.injectQueue[0]
	copy(r.injectQueue, r.injectQueue[1:])
	r.injectQueue = r.injectQueue[:len(r.injectQueue)-1]
	r.mu.Unlock()

	switch ev.kind {
	case InputWheel:
		r.DispatchWheel(&WheelEvent{DeltaY: ev.deltaY})
	case InputTouchStart, InputTouchMove, InputTouchEnd:
		r.DispatchTouch(ev.kind, &TouchEvent{ID: ev.id, X: ev.x, Y: ev.y})
	case InputPointerMove:
		r.DispatchPointerMove(ev.x, ev.y)
	}
	return true
}
