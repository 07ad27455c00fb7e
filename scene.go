package showreel

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
)

// Host is the render surface scenes are mounted into. It is handed to
// factories and to Init.
type Host interface {
	Size() (width, height int)
}

// Scene is the only required part of the capability contract. Every other
// lifecycle member is optional: the manager checks whether an instance
// implements Loader, Initializer, Starter, Stopper, Disposer, Resizer,
// PointerMover, WheelHandler or Drawer before invoking it.
type Scene interface {
	// Animate advances the scene by dt seconds. Called once per frame while
	// the scene is started.
	Animate(dt float64)
}

// Loader fetches assets before the scene touches the render context.
type Loader interface {
	Load(ctx context.Context) error
}

// Initializer performs context-bound setup after Load.
type Initializer interface {
	Init(ctx context.Context, host Host) error
}

// Starter is called each time the scene becomes active.
type Starter interface {
	Start(ctx context.Context) error
}

// Stopper is called each time the scene stops being active.
type Stopper interface {
	Stop(ctx context.Context) error
}

// Disposer releases resources. Called at most once per instance.
type Disposer interface {
	Dispose()
}

// Resizer receives surface size changes for every live instance.
type Resizer interface {
	Resize(width, height int)
}

// PointerMover receives cursor moves while the scene is started.
type PointerMover interface {
	OnPointerMove(x, y float64)
}

// WheelHandler receives wheel events not consumed by the step scroller.
type WheelHandler interface {
	OnWheel(ev *WheelEvent)
}

// Drawer renders the scene. Called from Stage.Draw while the scene is started.
type Drawer interface {
	Draw(screen *ebiten.Image)
}

// Factory builds a fresh scene instance. It is invoked lazily on the first
// Show of a name and again after the instance has been unloaded.
type Factory func(ctx context.Context, host Host) (Scene, error)

// SceneFuncs is a Scene assembled from optional funcs. A nil field means the
// scene does not provide that member.
//
//	mgr.Register("about", func(ctx context.Context, h showreel.Host) (showreel.Scene, error) {
//		return &showreel.SceneFuncs{OnAnimate: spin, OnDraw: draw}, nil
//	})
type SceneFuncs struct {
	OnLoad        func(ctx context.Context) error
	OnInit        func(ctx context.Context, host Host) error
	OnStart       func(ctx context.Context) error
	OnStop        func(ctx context.Context) error
	OnDispose     func()
	OnAnimate     func(dt float64)
	OnResize      func(width, height int)
	OnPointerMove func(x, y float64)
	OnWheel       func(ev *WheelEvent)
	OnDraw        func(screen *ebiten.Image)
}

// Animate implements Scene.
func (f *SceneFuncs) Animate(dt float64) {
	if f.OnAnimate != nil {
		f.OnAnimate(dt)
	}
}

// hooks is the presence-checked view of a scene's capabilities. The manager
// only ever calls through it.
type hooks struct {
	load        func(ctx context.Context) error
	init        func(ctx context.Context, host Host) error
	start       func(ctx context.Context) error
	stop        func(ctx context.Context) error
	dispose     func()
	animate     func(dt float64)
	resize      func(width, height int)
	pointerMove func(x, y float64)
	wheel       func(ev *WheelEvent)
	draw        func(screen *ebiten.Image)
}

// hooksOf checks a scene for the optional members it provides.
func hooksOf(s Scene) hooks {
	if f, ok := s.(*SceneFuncs); ok {
		return hooks{
			load:        f.OnLoad,
			init:        f.OnInit,
			start:       f.OnStart,
			stop:        f.OnStop,
			dispose:     f.OnDispose,
			animate:     f.OnAnimate,
			resize:      f.OnResize,
			pointerMove: f.OnPointerMove,
			wheel:       f.OnWheel,
			draw:        f.OnDraw,
		}
	}

	h := hooks{animate: s.Animate}
	if v, ok := s.(Loader); ok {
		h.load = v.Load
	}
	if v, ok := s.(Initializer); ok {
		h.init = v.Init
	}
	if v, ok := s.(Starter); ok {
		h.start = v.Start
	}
	if v, ok := s.(Stopper); ok {
		h.stop = v.Stop
	}
	if v, ok := s.(Disposer); ok {
		h.dispose = v.Dispose
	}
	if v, ok := s.(Resizer); ok {
		h.resize = v.Resize
	}
	if v, ok := s.(PointerMover); ok {
		h.pointerMove = v.OnPointerMove
	}
	if v, ok := s.(WheelHandler); ok {
		h.wheel = v.OnWheel
	}
	if v, ok := s.(Drawer); ok {
		h.draw = v.Draw
	}
	return h
}
