package showreel

import (
	"testing"
	"time"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "switch", "scene": "gallery"},
			{"action": "wheel", "deltaY": 2},
			{"action": "swipe", "x": 100, "fromY": 500, "toY": 200, "frames": 6},
			{"action": "wait", "frames": 3}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "screenshot" || runner.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Scene != "gallery" {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].DeltaY != 2 {
		t.Error("step 2 mismatch")
	}
	st := runner.steps[3]
	if st.X != 100 || st.FromY != 500 || st.ToY != 200 || st.Frames != 6 {
		t.Errorf("step 3 = %+v", st)
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `not json`},
		{"empty steps", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "click"}]}`},
		{"switch without scene", `{"steps": [{"action": "switch"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTestScript([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func mustRunner(t *testing.T, script string) *TestRunner {
	t.Helper()
	r, err := LoadTestScript([]byte(script))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRunnerStep_Wheel(t *testing.T) {
	s := newTestStage(t)
	runner := mustRunner(t, `{"steps": [{"action": "wheel"}]}`)
	s.SetTestRunner(runner)

	runner.step(s)
	if s.Input.Pending() != 1 {
		t.Fatalf("expected 1 queued event, got %d", s.Input.Pending())
	}
	// Not done while the injection is still pending.
	if runner.Done() {
		t.Error("runner should not be done while input is pending")
	}

	s.Input.processInjected()
	runner.step(s)
	if !runner.Done() {
		t.Error("runner should be done after all steps executed and input drained")
	}
}

func TestRunnerStep_Swipe(t *testing.T) {
	s := newTestStage(t)
	runner := mustRunner(t, `{"steps": [
		{"action": "swipe", "x": 10, "fromY": 400, "toY": 100, "frames": 4},
		{"action": "swipe", "fromY": 0, "toY": 50}
	]}`)

	runner.step(s)
	if s.Input.Pending() != 4 {
		t.Fatalf("Pending() = %d, want 4", s.Input.Pending())
	}
	for s.Input.processInjected() {
	}
	runner.step(s)
	if s.Input.Pending() != 2 {
		t.Errorf("Pending() = %d, want the 2-frame minimum", s.Input.Pending())
	}
}

func TestRunnerStep_Wait(t *testing.T) {
	s := newTestStage(t)
	runner := mustRunner(t, `{"steps": [{"action": "wait", "frames": 3}]}`)

	for i := range 3 {
		runner.step(s)
		if runner.Done() {
			t.Fatalf("done after %d frames", i+1)
		}
	}
	runner.step(s)
	if !runner.Done() {
		t.Error("runner should be done once the wait elapsed")
	}
}

func TestRunnerStep_Screenshot(t *testing.T) {
	s := newTestStage(t)
	runner := mustRunner(t, `{"steps": [{"action": "screenshot", "label": "first"}]}`)

	runner.step(s)
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "first" {
		t.Errorf("screenshotQueue = %v", s.screenshotQueue)
	}
	if !runner.Done() {
		t.Error("runner should be done after its only step")
	}
}

func TestRunnerStep_SwitchWaitsForTransition(t *testing.T) {
	s := newTestStage(t)
	s.Register("gallery", emptyScene)
	runner := mustRunner(t, `{"steps": [
		{"action": "switch", "scene": "gallery"},
		{"action": "screenshot", "label": "after"}
	]}`)

	runner.step(s)
	if !s.Switching() {
		t.Fatal("switch step did not start a switch")
	}
	runner.step(s)
	if len(s.screenshotQueue) != 0 {
		t.Fatal("runner advanced while the switch was running")
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.Switching() {
		if time.Now().After(deadline) {
			t.Fatal("switch never finished")
		}
		time.Sleep(time.Millisecond)
	}
	runner.step(s)
	if len(s.screenshotQueue) != 1 {
		t.Error("runner did not advance after the switch")
	}
	if name, _ := s.Scenes.Active(); name != "gallery" {
		t.Errorf("Active() = %q, want gallery", name)
	}
}

func TestRunnerStep_WaitsForScroll(t *testing.T) {
	s := newTestStage(t)
	s.SetContent(threeBlocks)
	s.MountContent("home")
	s.Scroller().Next()

	runner := mustRunner(t, `{"steps": [{"action": "screenshot"}]}`)
	runner.step(s)
	if len(s.screenshotQueue) != 0 {
		t.Fatal("runner advanced while the scroller was animating")
	}
	settle(t, s.Scroller())
	runner.step(s)
	if len(s.screenshotQueue) != 1 {
		t.Error("runner did not advance after the scroll")
	}
}

func TestRunnerDoneIsSticky(t *testing.T) {
	s := newTestStage(t)
	runner := mustRunner(t, `{"steps": [{"action": "screenshot"}]}`)
	runner.step(s)
	runner.step(s)
	if !runner.Done() || len(s.screenshotQueue) != 1 {
		t.Error("a finished runner should do nothing")
	}
}
