package showreel

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled screenshot to be captured at the end of the
// current frame's Draw call. The PNG goes to Config.ScreenshotDir, named after
// the time, the mounted scene and its anchor, and the label. Call from the
// game loop.
func (s *Stage) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// flushScreenshots captures the rendered frame for every queued label and
// writes each as a PNG file. Called at the end of Stage.Draw.
func (s *Stage) flushScreenshots(screen *ebiten.Image) {
	if len(s.screenshotQueue) == 0 {
		return
	}
	defer func() { s.screenshotQueue = s.screenshotQueue[:0] }()

	dir := s.cfg.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.log.Warn("screenshot: mkdir", "dir", dir, "err", err)
		return
	}

	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, w, h)

	s.mu.Lock()
	scene, anchor := s.mounted, -1
	if s.scroller != nil && !s.scroller.Inert() {
		anchor = s.scroller.Index()
	}
	s.mu.Unlock()

	stamp := time.Now().Format("20060102_150405")
	for _, label := range s.screenshotQueue {
		path := filepath.Join(dir, screenshotName(stamp, scene, anchor, label))
		if err := writePNG(path, img); err != nil {
			s.log.Warn("screenshot", "err", err)
			continue
		}
		s.log.Debug("screenshot written", "path", path, "scene", scene, "anchor", anchor)
	}
}

// screenshotName builds "<stamp>[_<scene>[-<anchor>]]_<label>.png". A negative
// anchor is omitted, as is an empty scene.
func screenshotName(stamp, scene string, anchor int, label string) string {
	parts := []string{stamp}
	if scene != "" {
		if anchor >= 0 {
			parts = append(parts, fmt.Sprintf("%s-%d", sanitizeLabel(scene), anchor))
		} else {
			parts = append(parts, sanitizeLabel(scene))
		}
	}
	parts = append(parts, sanitizeLabel(label))
	return strings.Join(parts, "_") + ".png"
}

// unpremultiply converts premultiplied RGBA pixels to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("screenshot %s: %w", path, err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("screenshot %s: %w", path, err)
	}
	return nil
}

// sanitizeLabel keeps letters, digits, '-' and '.' and turns everything else
// into '_'. A blank label becomes "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
