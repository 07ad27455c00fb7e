package showreel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Switcher is the part of SceneManager the transition coordinator drives.
type Switcher interface {
	Registered(name string) bool
	Show(ctx context.Context, name string, opts ...ShowOption) error
}

// TransitionConfig controls fade timing.
type TransitionConfig struct {
	// Duration of each fade.
	Duration time.Duration `mapstructure:"duration"`
	// Margin added to Duration for the fallback timer that ends a fade when
	// the overlay never signals completion.
	Margin time.Duration `mapstructure:"margin"`
}

// TransitionCoordinator wraps a scene switch in a fade to the overlay color
// and back. Transitions never overlap: SwitchTo waits for the one in flight
// to finish, TrySwitchTo refuses with ErrTransitionBusy.
type TransitionCoordinator struct {
	scenes  Switcher
	overlay *Overlay
	cfg     TransitionConfig
	log     *slog.Logger
	permit  *semaphore.Weighted

	mu          sync.Mutex
	phase       TransitionPhase
	target      string
	onPhase     func(phase TransitionPhase, scene string)
	afterSwitch func(scene string)
}

// defaultFadeMargin is used when TransitionConfig.Margin is not positive.
const defaultFadeMargin = 100 * time.Millisecond

// NewTransitionCoordinator creates a coordinator switching scenes through
// scenes and fading overlay.
func NewTransitionCoordinator(scenes Switcher, overlay *Overlay, cfg TransitionConfig) *TransitionCoordinator {
	if cfg.Margin <= 0 {
		cfg.Margin = defaultFadeMargin
	}
	return &TransitionCoordinator{
		scenes:  scenes,
		overlay: overlay,
		cfg:     cfg,
		log:     slog.Default().With("component", "transition"),
		permit:  semaphore.NewWeighted(1),
	}
}

// SetLogger replaces the coordinator's logger.
func (c *TransitionCoordinator) SetLogger(l *slog.Logger) {
	c.log = l
}

// SetPhaseObserver registers fn to be called on every phase change.
func (c *TransitionCoordinator) SetPhaseObserver(fn func(phase TransitionPhase, scene string)) {
	c.mu.Lock()
	c.onPhase = fn
	c.mu.Unlock()
}

// SetAfterSwitch registers fn to run after a successful switch, while the
// overlay is still fully opaque.
func (c *TransitionCoordinator) SetAfterSwitch(fn func(scene string)) {
	c.mu.Lock()
	c.afterSwitch = fn
	c.mu.Unlock()
}

// Phase returns the current phase and the scene being switched to.
func (c *TransitionCoordinator) Phase() (TransitionPhase, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase, c.target
}

// SwitchTo fades out, shows name and fades back in. If another transition is
// in flight it waits for that one to finish first; ctx bounds the wait.
func (c *TransitionCoordinator) SwitchTo(ctx context.Context, name string) error {
	if !c.scenes.Registered(name) {
		return fmt.Errorf("switch to %q: %w", name, ErrNotRegistered)
	}
	if err := c.permit.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("switch to %q: %w", name, err)
	}
	defer c.permit.Release(1)
	return c.run(ctx, name)
}

// TrySwitchTo is SwitchTo without waiting: it returns ErrTransitionBusy when
// a transition is already in flight.
func (c *TransitionCoordinator) TrySwitchTo(ctx context.Context, name string) error {
	if !c.scenes.Registered(name) {
		return fmt.Errorf("switch to %q: %w", name, ErrNotRegistered)
	}
	if !c.permit.TryAcquire(1) {
		return ErrTransitionBusy
	}
	defer c.permit.Release(1)
	return c.run(ctx, name)
}

func (c *TransitionCoordinator) run(ctx context.Context, name string) error {
	c.setPhase(PhaseFadingIn, name)
	c.fade(ctx, 1)

	// The overlay must come back down whatever happened to the switch.
	defer func() {
		c.setPhase(PhaseFadingOut, name)
		c.fade(context.WithoutCancel(ctx), 0)
		c.setPhase(PhaseIdle, "")
	}()

	c.setPhase(PhaseSwitching, name)
	if err := c.scenes.Show(ctx, name); err != nil {
		return fmt.Errorf("switch to %q: %w", name, err)
	}

	c.mu.Lock()
	after := c.afterSwitch
	c.mu.Unlock()
	if after != nil {
		after(name)
	}
	return nil
}

// fade animates the overlay to target and returns once the overlay signals
// completion or the fallback timer fires, whichever comes first.
func (c *TransitionCoordinator) fade(ctx context.Context, target float64) {
	done := c.overlay.FadeTo(target, c.cfg.Duration)

	timer := time.NewTimer(c.cfg.Duration + c.cfg.Margin)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		c.log.Debug("fade completion not signalled, forcing", "target", target)
		c.overlay.Snap(target)
	case <-ctx.Done():
		c.overlay.Snap(target)
	}
}

func (c *TransitionCoordinator) setPhase(p TransitionPhase, scene string) {
	c.mu.Lock()
	c.phase = p
	c.target = scene
	fn := c.onPhase
	c.mu.Unlock()
	if fn != nil {
		fn(p, scene)
	}
}
