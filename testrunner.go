package showreel

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Scene  string  `json:"scene,omitempty"`
	X      float64 `json:"x,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences scene switches, injected input and screenshots across
// frames for automated visual testing. Attach to a Stage via SetTestRunner.
//
// Supported actions: "switch" (scene), "wheel" (deltaY), "swipe" (x, fromY,
// toY, frames), "wait" (frames) and "screenshot" (label).
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Stage via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "switch":
			if st.Scene == "" {
				return nil, fmt.Errorf("parse test script: step %d: switch needs a scene", i)
			}
		case "wheel", "swipe", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// busy reports whether the stage is still working through earlier steps.
func (r *TestRunner) busy(s *Stage) bool {
	if s.Input.Pending() > 0 || s.Switching() {
		return true
	}
	if phase, _ := s.Transitions.Phase(); phase != PhaseIdle {
		return true
	}
	if sc := s.Scroller(); sc != nil && sc.Animating() {
		return true
	}
	return false
}

// step advances the test runner by one frame. Called from Stage.Update.
func (r *TestRunner) step(s *Stage) {
	if r.done {
		return
	}
	// Wait for injections, transitions and scrolls to settle before advancing.
	if r.busy(s) {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "switch":
		s.SwitchTo(st.Scene)
	case "wheel":
		dy := st.DeltaY
		if dy == 0 {
			dy = 1
		}
		s.Input.InjectWheel(dy)
	case "swipe":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		s.Input.InjectSwipe(st.X, st.FromY, st.ToY, frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !r.busy(s) {
		r.done = true
	}
}
