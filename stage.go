package showreel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
)

// defaultFontSize is the content panel text size in pixels.
const defaultFontSize = 28

// Stage is the top-level object that owns the scene manager, transitions,
// input routing, the fade overlay and the narrative content for the active
// scene. It implements ebiten.Game and is the Host passed to scene factories.
//
// Lifecycle is explicit: NewStage, Init, then ebiten.RunGame (or Run), then
// Teardown.
type Stage struct {
	Scenes      *SceneManager
	Transitions *TransitionCoordinator
	Overlay     *Overlay
	Input       *InputRouter
	View        *Viewport
	Panel       *ContentPanel

	cfg       Config
	log       *slog.Logger
	scrollLog *slog.Logger

	// ctx bounds background switches; cancelled by Teardown, renewed by Init.
	ctx       context.Context
	cancel    context.CancelFunc
	pending   sync.WaitGroup
	switching atomic.Int32

	// mu guards the mounted content: panel, view and scroller.
	mu       sync.Mutex
	content  ContentProvider
	scroller *StepScroller
	mounted  string

	sizeMu sync.Mutex
	width  int
	height int

	// sinkMu guards the sink and events queued for it.
	sinkMu sync.Mutex
	sink   EventSink
	events []StageEvent

	updateFunc      func() error
	runner          *TestRunner
	screenshotQueue []string
	lastStats       stageStats
	initialized     bool
}

// NewStage creates a stage from cfg. Register scenes on it, then call Init.
func NewStage(cfg Config) (*Stage, error) {
	face, err := DefaultFace(defaultFontSize)
	if err != nil {
		return nil, err
	}

	cfg = cfg.withDefaults()
	s := &Stage{
		cfg:       cfg,
		log:       slog.Default().With("component", "stage"),
		scrollLog: slog.Default().With("component", "scroller"),
		width:     cfg.Window.Width,
		height:    cfg.Window.Height,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.Scenes = NewSceneManager(s)
	s.Overlay = NewOverlay(ColorBlack)
	s.Transitions = NewTransitionCoordinator(s.Scenes, s.Overlay, cfg.Transition)
	s.Input = NewInputRouter()
	s.View = NewViewport(float64(cfg.Window.Height))
	s.Panel = NewContentPanel(face)
	s.Panel.Layout(float64(cfg.Window.Width), float64(cfg.Window.Height))

	s.Input.SetFallthrough(s.Scenes.Wheel, s.Scenes.PointerMove)
	s.Scenes.SetObserver(func(name string, st State) {
		s.emit(StageEvent{Type: EventSceneState, Scene: name, State: st})
	})
	s.Transitions.SetPhaseObserver(func(p TransitionPhase, name string) {
		s.emit(StageEvent{Type: EventTransitionPhase, Scene: name, Phase: p})
	})
	s.Transitions.SetAfterSwitch(s.MountContent)
	return s, nil
}

// SetLogger replaces the logger of the stage and every component it owns,
// including the scroller of the mounted content and those mounted later.
func (s *Stage) SetLogger(l *slog.Logger) {
	s.log = l.With("component", "stage")
	s.Scenes.SetLogger(l.With("component", "scenes"))
	s.Transitions.SetLogger(l.With("component", "transition"))

	s.mu.Lock()
	s.scrollLog = l.With("component", "scroller")
	if s.scroller != nil {
		s.scroller.SetLogger(s.scrollLog)
	}
	s.mu.Unlock()
}

// SetContent sets the provider of narrative blocks. It takes effect on the
// next switch.
func (s *Stage) SetContent(p ContentProvider) {
	s.mu.Lock()
	s.content = p
	s.mu.Unlock()
}

// SetEventSink sets an optional sink that receives lifecycle, transition and
// navigation events. Events are delivered from Update, on the game loop, in
// the order they happened.
func (s *Stage) SetEventSink(sink EventSink) {
	s.sinkMu.Lock()
	s.sink = sink
	s.sinkMu.Unlock()
}

// emit queues ev for the sink. Safe from any goroutine.
func (s *Stage) emit(ev StageEvent) {
	s.sinkMu.Lock()
	if s.sink != nil {
		s.events = append(s.events, ev)
	}
	s.sinkMu.Unlock()
}

func (s *Stage) flushEvents() {
	s.sinkMu.Lock()
	sink, queued := s.sink, s.events
	s.events = nil
	s.sinkMu.Unlock()
	for _, ev := range queued {
		sink.EmitEvent(ev)
	}
}

// SetUpdateFunc sets a callback run at the start of every Update, for
// app-level input such as key bindings. A returned error ends the game loop.
func (s *Stage) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetTestRunner attaches a TestRunner. Its steps run from Update.
func (s *Stage) SetTestRunner(r *TestRunner) {
	s.runner = r
}

// Register stores a scene factory under name.
func (s *Stage) Register(name string, f Factory) {
	s.Scenes.Register(name, f)
}

// Size returns the current surface size.
func (s *Stage) Size() (int, int) {
	s.sizeMu.Lock()
	defer s.sizeMu.Unlock()
	return s.width, s.height
}

// Init loads the configured content file, if any. A content provider set
// with SetContent takes precedence over the file. After Teardown, Init makes
// the stage usable again.
func (s *Stage) Init(ctx context.Context) error {
	if s.initialized {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}

	s.mu.Lock()
	needContent := s.content == nil && s.cfg.Content.Path != ""
	s.mu.Unlock()
	if needContent {
		c, err := LoadContentFile(s.cfg.Content.Path)
		if err != nil {
			return fmt.Errorf("init stage: %w", err)
		}
		s.SetContent(c)
		s.log.Info("content loaded", "path", s.cfg.Content.Path, "scenes", len(c))
	}
	s.initialized = true
	return nil
}

// Teardown cancels switches in flight, waits for them, closes the scroller
// and unloads every scene.
func (s *Stage) Teardown(ctx context.Context) error {
	s.cancel()
	s.pending.Wait()

	s.mu.Lock()
	if s.scroller != nil {
		s.scroller.Close()
		s.scroller = nil
	}
	s.mounted = ""
	s.Panel.Clear()
	s.mu.Unlock()

	var errs []error
	for _, name := range s.Scenes.Names() {
		if err := s.Scenes.Unload(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	s.initialized = false
	return errors.Join(errs...)
}

// SwitchTo starts a faded switch to name in the background and returns
// immediately. Failures are logged and reported to the event sink.
func (s *Stage) SwitchTo(name string) {
	ctx := s.ctx
	s.pending.Add(1)
	s.switching.Add(1)
	go func() {
		defer s.pending.Done()
		defer s.switching.Add(-1)
		if err := s.SwitchToWait(ctx, name); err != nil {
			s.log.Warn("switch failed", "scene", name, "err", err)
		}
	}()
}

// SwitchToWait performs a faded switch to name and returns when the fade back
// has finished. The game loop must keep running for the fades to progress.
func (s *Stage) SwitchToWait(ctx context.Context, name string) error {
	err := s.Transitions.SwitchTo(ctx, name)
	if err != nil {
		s.emit(StageEvent{Type: EventSwitchFailed, Scene: name, Err: err})
	}
	return err
}

// MountContent replaces the narrative content with name's blocks. The old
// scroller is closed before the new one binds its input handlers. A scene
// without content gets an inert scroller.
func (s *Stage) MountContent(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mountLocked(name, -1)
}

// mountLocked builds the scroller for name. A non-negative keep is the anchor
// to show straight away, without the initial jump; a fresh mount passes -1.
func (s *Stage) mountLocked(name string, keep int) {
	if s.scroller != nil {
		s.scroller.Close()
		s.scroller = nil
	}

	var blocks []Block
	if s.content != nil {
		blocks, _ = s.content.Blocks(name)
	}
	if err := s.Panel.SetBlocks(blocks); err != nil {
		s.log.Warn("content rejected", "scene", name, "err", err)
		s.Panel.Clear()
	}

	w, h := s.Size()
	s.Panel.Layout(float64(w), float64(h))
	s.View.Height = float64(h)
	s.View.Reset()
	s.View.SetContentHeight(s.Panel.ContentHeight())

	sc := NewStepScroller(s.Panel.Anchors(), s.View, s.Input, s.cfg.Scroll)
	sc.SetLogger(s.scrollLog)
	if keep >= 0 {
		sc.settleAt(keep)
	}
	sc.SetStepObserver(func(i int) {
		s.Panel.Focus(i)
		s.emit(StageEvent{Type: EventAnchorStep, Scene: name, Anchor: i})
	})
	s.scroller = sc
	s.mounted = name
	if !sc.Inert() {
		s.Panel.Focus(sc.index)
	}
}

// Switching reports whether a switch started with SwitchTo is still running.
func (s *Stage) Switching() bool {
	return s.switching.Load() > 0
}

// Scroller returns the scroller for the mounted content, or nil before the
// first switch.
func (s *Stage) Scroller() *StepScroller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scroller
}

// Update advances input, overlay, scroller, content and the active scene by
// one tick.
func (s *Stage) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.Input.Update()
	s.Overlay.Update(float32(dt))
	if s.scroller != nil {
		s.scroller.Update(dt)
	}
	s.Panel.Update(dt)
	s.mu.Unlock()

	s.Scenes.Update()
	s.flushEvents()

	if s.runner != nil {
		s.runner.step(s)
	}
	if s.cfg.Debug {
		s.debugLog()
	}
	return nil
}

// Draw renders the active scene, the content panel, the fade overlay and,
// in debug mode, the HUD.
func (s *Stage) Draw(screen *ebiten.Image) {
	s.Scenes.Draw(screen)

	s.mu.Lock()
	s.Panel.Draw(screen, s.View.ScrollOffset())
	s.mu.Unlock()

	s.Overlay.Draw(screen)
	if s.cfg.Debug {
		s.drawHUD(screen)
	}
	s.flushScreenshots(screen)
}

// Layout reports the surface size and forwards size changes to every live
// scene and the content layout. The content stays on the current anchor.
func (s *Stage) Layout(outsideWidth, outsideHeight int) (int, int) {
	s.sizeMu.Lock()
	changed := outsideWidth != s.width || outsideHeight != s.height
	s.width, s.height = outsideWidth, outsideHeight
	s.sizeMu.Unlock()

	if changed {
		s.Scenes.Resize(outsideWidth, outsideHeight)
		s.mu.Lock()
		if s.mounted != "" {
			idx := 0
			if s.scroller != nil {
				idx = s.scroller.Index()
			}
			s.mountLocked(s.mounted, idx)
		}
		s.mu.Unlock()
	}
	return outsideWidth, outsideHeight
}

// Run opens a window sized from the stage config, runs Init, the game loop
// and Teardown.
func Run(s *Stage) error {
	ebiten.SetWindowTitle(s.cfg.Window.Title)
	ebiten.SetWindowSize(s.cfg.Window.Width, s.cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	ctx := context.Background()
	if err := s.Init(ctx); err != nil {
		return err
	}
	runErr := ebiten.RunGame(s)
	if err := s.Teardown(ctx); err != nil {
		s.log.Warn("teardown", "err", err)
	}
	return runErr
}
