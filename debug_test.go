package showreel

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestStatsWithoutContent(t *testing.T) {
	s := newTestStage(t)
	st := s.stats()
	if st.active != "" || st.anchor != -1 || st.anchors != 0 {
		t.Errorf("stats = %+v", st)
	}
	if st.phase != PhaseIdle {
		t.Errorf("phase = %v, want idle", st.phase)
	}
}

func TestStatsAllFieldsPopulated(t *testing.T) {
	s := newTestStage(t)
	s.SetContent(threeBlocks)
	s.Register("home", emptyScene)
	if err := s.Scenes.Show(context.Background(), "home"); err != nil {
		t.Fatal(err)
	}
	s.MountContent("home")
	s.Scroller().Next()
	s.Overlay.Snap(0.25)

	st := s.stats()
	if st.active != "home" {
		t.Errorf("active = %q", st.active)
	}
	if st.anchor != 1 || st.anchors != 3 || !st.animating {
		t.Errorf("anchor %d/%d animating %v", st.anchor, st.anchors, st.animating)
	}
	if st.opacity != 0.25 {
		t.Errorf("opacity = %v", st.opacity)
	}
}

func TestDebugLogOnlyOnChange(t *testing.T) {
	var buf bytes.Buffer
	s := newTestStage(t)
	s.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	s.Register("home", emptyScene)
	if err := s.Scenes.Show(context.Background(), "home"); err != nil {
		t.Fatal(err)
	}

	s.debugLog()
	s.debugLog()
	if n := strings.Count(buf.String(), "msg=stage"); n != 1 {
		t.Fatalf("logged %d times, want 1:\n%s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "active=home") {
		t.Errorf("log line lacks the active scene: %s", buf.String())
	}

	s.SetContent(threeBlocks)
	s.MountContent("home")
	s.debugLog()
	if n := strings.Count(buf.String(), "msg=stage"); n != 2 {
		t.Errorf("logged %d times after mounting content, want 2", n)
	}
}
