package showreel

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var goRegularSource = sync.OnceValues(func() (*text.GoTextFaceSource, error) {
	return text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
})

// DefaultFace returns a Go Regular face at the given size.
func DefaultFace(size float64) (*text.GoTextFace, error) {
	src, err := goRegularSource()
	if err != nil {
		return nil, fmt.Errorf("showreel: parse default font: %w", err)
	}
	return &text.GoTextFace{Source: src, Size: size}, nil
}

// ContentPanel lays a scene's content blocks out one per page and draws them
// over the scene. Each page is an anchor for a StepScroller. The focused block
// fades in with its FadeIn treatment; the block losing focus fades out with
// its FadeOut treatment.
type ContentPanel struct {
	// Color of the text.
	Color Color
	// Margin is the horizontal padding on each side of a page.
	Margin float64
	// Treatments maps block tags to treatments. Defaults to DefaultTreatments.
	Treatments map[string]Treatment

	face       *text.GoTextFace
	lineHeight float64

	width      float64
	pageHeight float64
	pages      []panelPage
	focus      int
}

type panelPage struct {
	block      Block
	text       string
	lines      []string
	textHeight float64

	alpha, shift float64
	alphaTween   *tweenValue
	shiftTween   *tweenValue
}

// NewContentPanel creates an empty panel drawing with face.
func NewContentPanel(face *text.GoTextFace) *ContentPanel {
	m := face.Metrics()
	return &ContentPanel{
		Color:      Color{1, 1, 1, 1},
		Margin:     48,
		Treatments: DefaultTreatments,
		face:       face,
		lineHeight: m.HAscent + m.HDescent + m.HLineGap,
		focus:      -1,
	}
}

// SetBlocks replaces the panel content. Pages start hidden and unfocused; call
// Layout before reading anchors.
func (p *ContentPanel) SetBlocks(blocks []Block) error {
	pages := make([]panelPage, 0, len(blocks))
	for i, b := range blocks {
		s, err := markupText(b.Markup)
		if err != nil {
			return fmt.Errorf("showreel: block %d: %w", i, err)
		}
		pages = append(pages, panelPage{block: b, text: s})
	}
	p.pages = pages
	p.focus = -1
	p.relayout()
	return nil
}

// Clear removes all content.
func (p *ContentPanel) Clear() {
	p.pages = nil
	p.focus = -1
}

// Layout sets the page size and rewraps every block.
func (p *ContentPanel) Layout(width, pageHeight float64) {
	p.width = width
	p.pageHeight = pageHeight
	p.relayout()
}

func (p *ContentPanel) relayout() {
	wrapWidth := p.width - 2*p.Margin
	for i := range p.pages {
		pg := &p.pages[i]
		pg.lines = wrapText(pg.text, wrapWidth, func(s string) float64 {
			return text.Advance(s, p.face)
		})
		pg.textHeight = float64(len(pg.lines)) * p.lineHeight
	}
}

// Len returns the number of blocks.
func (p *ContentPanel) Len() int { return len(p.pages) }

// Text returns the plain text extracted from block i.
func (p *ContentPanel) Text(i int) string { return p.pages[i].text }

// Lines returns the wrapped lines of block i.
func (p *ContentPanel) Lines(i int) []string { return p.pages[i].lines }

// Alpha returns the current opacity of block i.
func (p *ContentPanel) Alpha(i int) float64 { return p.pages[i].alpha }

// Focused returns the focused block index, or -1.
func (p *ContentPanel) Focused() int { return p.focus }

// ContentHeight returns the total height of all pages.
func (p *ContentPanel) ContentHeight() float64 {
	return float64(len(p.pages)) * p.pageHeight
}

// Anchors returns one anchor per page, in order.
func (p *ContentPanel) Anchors() []Anchor {
	out := make([]Anchor, len(p.pages))
	for i := range p.pages {
		out[i] = Anchor{
			ID:     fmt.Sprintf("block-%d", i),
			Bounds: Rect{X: 0, Y: float64(i) * p.pageHeight, Width: p.width, Height: p.pageHeight},
		}
	}
	return out
}

// Focus moves focus to block i, starting the fade-out of the previous block
// and the fade-in of the new one. Out-of-range indices and the already
// focused block are ignored.
func (p *ContentPanel) Focus(i int) {
	if i < 0 || i >= len(p.pages) || i == p.focus {
		return
	}
	if p.focus >= 0 {
		pg := &p.pages[p.focus]
		t := p.treatment(pg.block.FadeOut)
		pg.alphaTween = newTween(&pg.alpha, 0, t.Duration, t.Ease)
		pg.shiftTween = newTween(&pg.shift, -t.Shift, t.Duration, t.Ease)
	}
	pg := &p.pages[i]
	t := p.treatment(pg.block.FadeIn)
	pg.shift = t.Shift
	pg.alphaTween = newTween(&pg.alpha, 1, t.Duration, t.Ease)
	pg.shiftTween = newTween(&pg.shift, 0, t.Duration, t.Ease)
	p.focus = i
}

func (p *ContentPanel) treatment(tag string) Treatment {
	if t, ok := p.Treatments[tag]; ok {
		return t
	}
	return p.Treatments["fade"]
}

// Update advances block treatments by dt seconds.
func (p *ContentPanel) Update(dt float64) {
	for i := range p.pages {
		pg := &p.pages[i]
		if pg.alphaTween != nil && pg.alphaTween.update(float32(dt)) {
			pg.alphaTween = nil
		}
		if pg.shiftTween != nil && pg.shiftTween.update(float32(dt)) {
			pg.shiftTween = nil
		}
	}
}

// Draw renders the visible pages onto screen, scrolled by offset.
func (p *ContentPanel) Draw(screen *ebiten.Image, offset float64) {
	for i := range p.pages {
		pg := &p.pages[i]
		alpha := pg.alpha * p.Color.A
		if alpha <= 0 || len(pg.lines) == 0 {
			continue
		}
		top := float64(i)*p.pageHeight - offset
		if top+p.pageHeight < 0 || top > float64(screen.Bounds().Dy()) {
			continue
		}

		op := &text.DrawOptions{}
		op.GeoM.Translate(p.width/2, top+(p.pageHeight-pg.textHeight)/2+pg.shift)
		op.ColorScale.Scale(
			float32(p.Color.R*alpha),
			float32(p.Color.G*alpha),
			float32(p.Color.B*alpha),
			float32(alpha),
		)
		op.LineSpacing = p.lineHeight
		op.PrimaryAlign = text.AlignCenter
		text.Draw(screen, strings.Join(pg.lines, "\n"), p.face, op)
	}
}

// --- Markup ---

// blockTags end a paragraph.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "header": true, "footer": true,
}

// markupText extracts the readable text from an HTML fragment. Paragraph-level
// elements are separated by a blank line; <br> breaks a line.
func markupText(markup string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			writeCollapsed(&b, n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Br:
				b.WriteByte('\n')
				return
			case atom.Script, atom.Style:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			b.WriteString("\n\n")
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return tidyLines(b.String()), nil
}

func writeCollapsed(b *strings.Builder, s string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			b.WriteByte(' ')
		}
		return
	}
	if unicode.IsSpace(rune(s[0])) {
		b.WriteByte(' ')
	}
	b.WriteString(strings.Join(fields, " "))
	if unicode.IsSpace(rune(s[len(s)-1])) {
		b.WriteByte(' ')
	}
}

// tidyLines trims every line and keeps at most one blank line between
// paragraphs.
func tidyLines(s string) string {
	var out []string
	blank := true
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

// wrapText breaks s into lines no wider than width, splitting at spaces.
// Existing line breaks are kept. A single word wider than width gets a line of
// its own. A non-positive width disables wrapping.
func wrapText(s string, width float64, measure func(string) float64) []string {
	if s == "" {
		return nil
	}
	paragraphs := strings.Split(s, "\n")
	if width <= 0 {
		return paragraphs
	}
	var lines []string
	for _, para := range paragraphs {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			candidate := cur + " " + w
			if measure(candidate) <= width {
				cur = candidate
				continue
			}
			lines = append(lines, cur)
			cur = w
		}
		lines = append(lines, cur)
	}
	return lines
}
