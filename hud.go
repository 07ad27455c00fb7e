package showreel

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hudWidth and hudHeight fit the lines printed by drawHUD.
const (
	hudWidth  = 220
	hudHeight = 84
)

var hudBackground = color.RGBA{0, 0, 0, 128}

// drawHUD prints FPS and orchestration state in the top-left corner.
func (s *Stage) drawHUD(screen *ebiten.Image) {
	st := s.stats()

	b := screen.Bounds()
	panel := image.Rect(b.Min.X, b.Min.Y, b.Min.X+hudWidth, b.Min.Y+hudHeight).Intersect(b)
	if panel.Empty() {
		return
	}
	screen.SubImage(panel).(*ebiten.Image).Fill(hudBackground)

	active := st.active
	if active == "" {
		active = "-"
	}
	anchor := "-"
	if st.anchors > 0 {
		anchor = fmt.Sprintf("%d/%d", st.anchor+1, st.anchors)
		if st.animating {
			anchor += " *"
		}
	}
	msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nscene: %s\nphase: %s %s\nanchor: %s\noverlay: %.2f",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		active,
		st.phase, st.target,
		anchor,
		st.opacity,
	)
	ebitenutil.DebugPrintAt(screen, msg, b.Min.X+4, b.Min.Y+2)
}
