package showreel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/semaphore"
)

// entry is one registry slot. instance is nil until the first Show of the
// name and again after the instance has been unloaded.
type entry struct {
	name     string
	factory  Factory
	instance Scene
	hooks    hooks
	state    State
}

// ShowOption configures a single Show call.
type ShowOption func(*showConfig)

type showConfig struct {
	unloadOthers bool
}

// KeepOthers leaves other live instances in place instead of unloading them
// after the switch.
func KeepOthers() ShowOption {
	return func(c *showConfig) { c.unloadOthers = false }
}

// SceneManager owns the scene registry and at most one active scene. It drives
// the create -> load -> init -> start / stop -> dispose lifecycle.
//
// Show and Unload are serialized: a second Show waits until the first one has
// returned. Update, Draw, Resize and input forwarding never block on a switch
// in progress and are safe to call from the game loop while Show runs on
// another goroutine. Hooks must not call Show synchronously.
type SceneManager struct {
	host Host
	log  *slog.Logger

	// permit serializes Show/Unload/UnloadAllExcept.
	permit *semaphore.Weighted
	// frame is held while calling into a started scene. Leaving StateStarted
	// and disposing both take it first.
	frame sync.Mutex
	// mu guards everything below.
	mu     sync.Mutex
	scenes map[string]*entry
	active *entry
	last   time.Time
	now    func() time.Time

	observer func(name string, state State)
}

// NewSceneManager creates an empty manager bound to host.
func NewSceneManager(host Host) *SceneManager {
	m := &SceneManager{
		host:   host,
		log:    slog.Default().With("component", "scenes"),
		permit: semaphore.NewWeighted(1),
		scenes: make(map[string]*entry),
		now:    time.Now,
	}
	m.last = m.now()
	return m
}

// SetLogger replaces the manager's logger.
func (m *SceneManager) SetLogger(l *slog.Logger) {
	m.log = l
}

// SetObserver registers fn to be told about every lifecycle state change.
// fn is called without any manager lock held.
func (m *SceneManager) SetObserver(fn func(name string, state State)) {
	m.mu.Lock()
	m.observer = fn
	m.mu.Unlock()
}

func (m *SceneManager) notify(name string, st State) {
	m.mu.Lock()
	fn := m.observer
	m.mu.Unlock()
	if fn != nil {
		fn(name, st)
	}
}

// Register stores factory under name. Registering an existing name replaces
// its factory but does not clear the slot: an instance already built from the
// old factory stays live, and Show keeps reusing it, until it is unloaded.
// Only the next build uses the new factory.
func (m *SceneManager) Register(name string, factory Factory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.scenes[name]; ok {
		e.factory = factory
		return
	}
	m.scenes[name] = &entry{name: name, factory: factory}
}

// Registered reports whether name has a factory.
func (m *SceneManager) Registered(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.scenes[name]
	return ok
}

// Names returns the registered scene names in sorted order.
func (m *SceneManager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.scenes))
	for name := range m.scenes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Active returns the name of the active scene.
func (m *SceneManager) Active() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return "", false
	}
	return m.active.name, true
}

// State returns the lifecycle state of name's slot. Unknown names and empty
// slots report StateUnbuilt.
func (m *SceneManager) State(name string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.scenes[name]; ok {
		return e.state
	}
	return StateUnbuilt
}

// Show makes name the active scene. The current scene is stopped first
// (failures are logged), the target is built on first use (factory, Load,
// Init), made active and started. Unless KeepOthers is given, every other
// live instance is then unloaded.
//
// A failure while building or starting the target is returned as a
// *HookError. The target is disposed and the previous scene is restarted and
// stays active. Showing an unknown name returns ErrNotRegistered without
// touching the active scene.
func (m *SceneManager) Show(ctx context.Context, name string, opts ...ShowOption) error {
	cfg := showConfig{unloadOthers: true}
	for _, o := range opts {
		o(&cfg)
	}

	m.mu.Lock()
	target, ok := m.scenes[name]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("show %q: %w", name, ErrNotRegistered)
	}

	if err := m.permit.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("show %q: %w", name, err)
	}
	defer m.permit.Release(1)

	m.mu.Lock()
	prev := m.active
	m.mu.Unlock()

	if prev != nil {
		if err := m.stopEntry(ctx, prev); err != nil {
			m.log.Warn("stop failed", "scene", prev.name, "err", err)
		}
	}

	if err := m.build(ctx, target); err != nil {
		m.resume(ctx, prev, target)
		return err
	}

	m.mu.Lock()
	m.active = target
	m.mu.Unlock()

	if err := m.startEntry(ctx, target); err != nil {
		if relErr := m.release(ctx, target); relErr != nil {
			m.log.Warn("cleanup after failed start", "scene", name, "err", relErr)
		}
		m.resume(ctx, prev, target)
		return err
	}

	if cfg.unloadOthers {
		if err := m.unloadExcept(ctx, name); err != nil {
			m.log.Warn("unload failed", "err", err)
		}
	}
	return nil
}

// Unload stops and disposes name's instance and clears its slot. Hook
// failures are returned for inspection; the slot is cleared regardless.
// Unloading the active scene leaves no scene active.
func (m *SceneManager) Unload(ctx context.Context, name string) error {
	if err := m.permit.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("unload %q: %w", name, err)
	}
	defer m.permit.Release(1)

	m.mu.Lock()
	e, ok := m.scenes[name]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return m.release(ctx, e)
}

// UnloadAllExcept unloads every live instance other than name's.
func (m *SceneManager) UnloadAllExcept(ctx context.Context, name string) error {
	if err := m.permit.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("unload: %w", err)
	}
	defer m.permit.Release(1)
	return m.unloadExcept(ctx, name)
}

// Update forwards the time elapsed since the previous call to the active
// scene's Animate. A panicking Animate is logged and the frame continues.
func (m *SceneManager) Update() {
	m.frame.Lock()
	defer m.frame.Unlock()

	m.mu.Lock()
	now := m.now()
	dt := now.Sub(m.last).Seconds()
	m.last = now
	if dt < 0 {
		dt = 0
	}
	e := m.active
	var name string
	var animate func(float64)
	if e != nil && e.state == StateStarted {
		name, animate = e.name, e.hooks.animate
	}
	m.mu.Unlock()

	if animate == nil {
		return
	}
	if err := callHook(name, "animate", func() error { animate(dt); return nil }); err != nil {
		m.log.Error("animate failed", "scene", name, "err", err)
	}
}

// Draw forwards to the active scene's Draw.
func (m *SceneManager) Draw(screen *ebiten.Image) {
	m.frame.Lock()
	defer m.frame.Unlock()

	name, h, ok := m.started()
	if !ok || h.draw == nil {
		return
	}
	if err := callHook(name, "draw", func() error { h.draw(screen); return nil }); err != nil {
		m.log.Error("draw failed", "scene", name, "err", err)
	}
}

// PointerMove forwards a cursor position to the active scene.
func (m *SceneManager) PointerMove(x, y float64) {
	m.frame.Lock()
	defer m.frame.Unlock()

	name, h, ok := m.started()
	if !ok || h.pointerMove == nil {
		return
	}
	if err := callHook(name, "pointer move", func() error { h.pointerMove(x, y); return nil }); err != nil {
		m.log.Warn("pointer move failed", "scene", name, "err", err)
	}
}

// Wheel forwards a wheel event to the active scene.
func (m *SceneManager) Wheel(ev *WheelEvent) {
	m.frame.Lock()
	defer m.frame.Unlock()

	name, h, ok := m.started()
	if !ok || h.wheel == nil {
		return
	}
	if err := callHook(name, "wheel", func() error { h.wheel(ev); return nil }); err != nil {
		m.log.Warn("wheel failed", "scene", name, "err", err)
	}
}

// Resize forwards the new surface size to every live instance, not only the
// active one.
func (m *SceneManager) Resize(width, height int) {
	m.frame.Lock()
	defer m.frame.Unlock()

	type target struct {
		name   string
		resize func(int, int)
	}
	var targets []target
	m.mu.Lock()
	for _, e := range m.scenes {
		if e.instance != nil && e.state.live() && e.hooks.resize != nil {
			targets = append(targets, target{e.name, e.hooks.resize})
		}
	}
	m.mu.Unlock()

	for _, t := range targets {
		if err := callHook(t.name, "resize", func() error { t.resize(width, height); return nil }); err != nil {
			m.log.Warn("resize failed", "scene", t.name, "err", err)
		}
	}
}

// started returns the active scene's hooks when it is in StateStarted.
func (m *SceneManager) started() (string, hooks, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.active
	if e == nil || e.state != StateStarted {
		return "", hooks{}, false
	}
	return e.name, e.hooks, true
}

// build constructs e's instance if its slot is empty. The slot is only filled
// once Load and Init have both succeeded; a surface size that changed while
// Init ran is passed to the instance's Resize right after.
func (m *SceneManager) build(ctx context.Context, e *entry) error {
	m.mu.Lock()
	if e.instance != nil {
		m.mu.Unlock()
		return nil
	}
	name, factory := e.name, e.factory
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("show %q: %w", name, err)
	}

	var inst Scene
	err := callHook(name, "factory", func() error {
		var err error
		inst, err = factory(ctx, m.host)
		if err == nil && inst == nil {
			err = errors.New("factory returned nil scene")
		}
		return err
	})
	if err != nil {
		return err
	}
	h := hooksOf(inst)

	if h.load != nil {
		if err := callHook(name, "load", func() error { return h.load(ctx) }); err != nil {
			m.discard(name, h)
			return err
		}
	}
	m.notify(name, StateLoaded)

	if err := ctx.Err(); err != nil {
		m.discard(name, h)
		return fmt.Errorf("show %q: %w", name, err)
	}

	initW, initH := m.host.Size()
	if h.init != nil {
		if err := callHook(name, "init", func() error { return h.init(ctx, m.host) }); err != nil {
			m.discard(name, h)
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		m.discard(name, h)
		return fmt.Errorf("show %q: %w", name, err)
	}

	// Resize skips empty slots, so a size change during Init is delivered
	// here. Holding frame orders this against a concurrent Resize.
	m.frame.Lock()
	m.mu.Lock()
	e.instance = inst
	e.hooks = h
	e.state = StateInitialized
	m.mu.Unlock()
	if w, ht := m.host.Size(); (w != initW || ht != initH) && h.resize != nil {
		if err := callHook(name, "resize", func() error { h.resize(w, ht); return nil }); err != nil {
			m.log.Warn("resize failed", "scene", name, "err", err)
		}
	}
	m.frame.Unlock()
	m.notify(name, StateInitialized)
	return nil
}

// discard disposes an instance that never made it into its slot.
func (m *SceneManager) discard(name string, h hooks) {
	if h.dispose != nil {
		if err := callHook(name, "dispose", func() error { h.dispose(); return nil }); err != nil {
			m.log.Warn("dispose failed", "scene", name, "err", err)
		}
	}
	m.notify(name, StateDisposed)
}

func (m *SceneManager) startEntry(ctx context.Context, e *entry) error {
	m.mu.Lock()
	name, h := e.name, e.hooks
	m.mu.Unlock()

	if h.start != nil {
		if err := callHook(name, "start", func() error { return h.start(ctx) }); err != nil {
			return err
		}
	}

	m.mu.Lock()
	e.state = StateStarted
	m.mu.Unlock()
	m.notify(name, StateStarted)
	return nil
}

// stopEntry moves a started instance to StateStopped and runs its Stop hook.
func (m *SceneManager) stopEntry(ctx context.Context, e *entry) error {
	m.frame.Lock()
	m.mu.Lock()
	if e.instance == nil || e.state != StateStarted {
		m.mu.Unlock()
		m.frame.Unlock()
		return nil
	}
	e.state = StateStopped
	name, h := e.name, e.hooks
	m.mu.Unlock()
	m.frame.Unlock()

	m.notify(name, StateStopped)
	if h.stop == nil {
		return nil
	}
	return callHook(name, "stop", func() error { return h.stop(ctx) })
}

// release clears e's slot, then stops (if started) and disposes the instance
// it held. The slot is emptied before any hook runs so nothing else can reach
// the instance, and a second release finds nothing to dispose.
func (m *SceneManager) release(ctx context.Context, e *entry) error {
	m.frame.Lock()
	m.mu.Lock()
	if e.instance == nil {
		m.mu.Unlock()
		m.frame.Unlock()
		return nil
	}
	name, h := e.name, e.hooks
	wasStarted := e.state == StateStarted
	e.instance = nil
	e.hooks = hooks{}
	e.state = StateUnbuilt
	if m.active == e {
		m.active = nil
	}
	m.mu.Unlock()
	m.frame.Unlock()

	var errs []error
	if wasStarted {
		m.notify(name, StateStopped)
		if h.stop != nil {
			errs = append(errs, callHook(name, "stop", func() error { return h.stop(ctx) }))
		}
	}
	if h.dispose != nil {
		errs = append(errs, callHook(name, "dispose", func() error { h.dispose(); return nil }))
	}
	m.notify(name, StateDisposed)
	return errors.Join(errs...)
}

func (m *SceneManager) unloadExcept(ctx context.Context, keep string) error {
	m.mu.Lock()
	var others []*entry
	for name, e := range m.scenes {
		if name != keep && e.instance != nil {
			others = append(others, e)
		}
	}
	m.mu.Unlock()

	var errs []error
	for _, e := range others {
		if err := m.release(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// resume reactivates prev after a failed switch to failed.
func (m *SceneManager) resume(ctx context.Context, prev, failed *entry) {
	if prev == nil || prev == failed {
		return
	}
	m.mu.Lock()
	live := prev.instance != nil
	if live {
		m.active = prev
	}
	m.mu.Unlock()
	if !live {
		return
	}

	ctx = context.WithoutCancel(ctx)
	if err := m.startEntry(ctx, prev); err != nil {
		m.log.Warn("restart after failed switch", "scene", prev.name, "err", err)
		if err := m.release(ctx, prev); err != nil {
			m.log.Warn("unload after failed restart", "scene", prev.name, "err", err)
		}
	}
}
