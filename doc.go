// Package showreel orchestrates interactive presentations on [Ebitengine]: an
// ordered set of scenes inside one window, switched under user control with
// fade-to-black transitions, plus stepped scrolling through each scene's
// narrative content.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window, initializes
// the [Stage] and runs the game loop:
//
//	stage, err := showreel.NewStage(showreel.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	stage.Register("home", newHome)
//	stage.Register("gallery", newGallery)
//	stage.SwitchTo("home")
//	if err := showreel.Run(stage); err != nil {
//		log.Fatal(err)
//	}
//
// For full control, call [Stage.Init], pass the stage to ebiten.RunGame and
// call [Stage.Teardown] when the loop returns.
//
// # Scenes
//
// A scene only has to implement [Scene], which is a single Animate method.
// Every other lifecycle hook is an optional interface ([Loader],
// [Initializer], [Starter], [Stopper], [Disposer], [Resizer],
// [PointerMover], [WheelHandler], [Drawer]) that the manager calls when
// present. [SceneFuncs] builds a scene from plain funcs:
//
//	stage.Register("about", func(ctx context.Context, h showreel.Host) (showreel.Scene, error) {
//		return &showreel.SceneFuncs{
//			OnDraw: func(screen *ebiten.Image) { screen.Fill(bg) },
//		}, nil
//	})
//
// Scenes are built lazily on first show (factory, Load, Init), started, and
// stopped and disposed when another scene takes over. At most one scene is
// started at any time. See [SceneManager].
//
// # Transitions
//
// [TransitionCoordinator] wraps each switch in a fade of the [Overlay] to
// opaque and back. Only one transition runs at a time: [Stage.SwitchTo] and
// [TransitionCoordinator.SwitchTo] queue behind the one in flight, while
// [TransitionCoordinator.TrySwitchTo] returns [ErrTransitionBusy]. The fade
// back always runs, even when the switch fails.
//
// # Content and stepped scrolling
//
// A [ContentProvider] supplies ordered [Block] values per scene, either in
// code with [StaticContent] or from a file with [LoadContentFile]. After each
// switch the stage lays the blocks out one per page in the [ContentPanel] and
// binds a [StepScroller] to the page anchors. A wheel tick or a vertical swipe
// moves exactly one anchor, with an eased scroll; input arriving mid-scroll is
// dropped.
//
// # Configuration
//
// [LoadConfig] reads a YAML, TOML or JSON file and SHOWREEL_ environment
// overrides (SHOWREEL_TRANSITION_DURATION=300ms, SHOWREEL_DEBUG=true).
// Debug mode draws a HUD with the active scene, transition phase and anchor.
//
// # Automated testing
//
// [LoadTestScript] parses a JSON script of switch, wheel, swipe, wait and
// screenshot steps. Attach it with [Stage.SetTestRunner]; steps run from the
// game loop and wait for transitions and scrolls to settle.
//
// # ECS integration
//
// [Stage.SetEventSink] forwards scene state changes, transition phases and
// anchor steps to an [EventSink]. The ecs sub-module provides a Donburi
// adapter.
//
// [Ebitengine]: https://ebitengine.org
package showreel
