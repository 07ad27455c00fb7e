package showreel

import "github.com/hajimehoshi/ebiten/v2"

// stageStats is a snapshot of orchestration state for the HUD and debug log.
type stageStats struct {
	active    string
	phase     TransitionPhase
	target    string
	anchor    int
	anchors   int
	animating bool
	opacity   float64
}

func (s *Stage) stats() stageStats {
	st := stageStats{anchor: -1}
	st.active, _ = s.Scenes.Active()
	st.phase, st.target = s.Transitions.Phase()
	st.opacity = s.Overlay.Opacity()

	s.mu.Lock()
	if s.scroller != nil {
		st.anchor = s.scroller.Index()
		st.anchors = s.scroller.Len()
		st.animating = s.scroller.Animating()
	}
	s.mu.Unlock()
	return st
}

// debugLog logs the orchestration state whenever the scene, phase or anchor
// changes. Only called when Config.Debug is set.
func (s *Stage) debugLog() {
	st := s.stats()
	prev := s.lastStats
	s.lastStats = st
	if st.active == prev.active && st.phase == prev.phase && st.anchor == prev.anchor {
		return
	}
	s.log.Debug("stage",
		"active", st.active,
		"phase", st.phase.String(),
		"target", st.target,
		"anchor", st.anchor,
		"anchors", st.anchors,
		"tps", ebiten.ActualTPS(),
	)
}
