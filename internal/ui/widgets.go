package ui

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Debug font metrics.
const (
	charW = 6
	lineH = 16
)

var (
	panelFill   = color.RGBA{R: 17, G: 24, B: 39, A: 200}
	panelBorder = color.RGBA{R: 55, G: 65, B: 81, A: 255}
	mutedText   = color.RGBA{R: 156, G: 163, B: 175, A: 255}
	trackFill   = color.RGBA{R: 25, G: 30, B: 40, A: 200}
	trackBorder = color.RGBA{R: 70, G: 80, B: 100, A: 255}
)

// hsvToRgb converts HSV to RGB (hue: 0-360, saturation: 0-1, value: 0-1)
func hsvToRgb(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}

type rect struct{ x, y, w, h int }

func (r rect) contains(px, py int) bool {
	return px >= r.x && px <= r.x+r.w && py >= r.y && py <= r.y+r.h
}

// button is a clickable box. A click fires on release over the button after
// a press that started on it.
type button struct {
	rect
	label   string
	hovered bool
	pressed bool
	enabled bool
}

func newButton(label string, x, y, w, h int) *button {
	return &button{rect: rect{x, y, w, h}, label: label, enabled: true}
}

// update reads the mouse and reports a completed click.
func (b *button) update(mouseX, mouseY int) bool {
	b.hovered = b.enabled && b.contains(mouseX, mouseY)
	if b.hovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		b.pressed = true
	}
	clicked := false
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		clicked = b.pressed && b.hovered
		b.pressed = false
	}
	return clicked
}

func (b *button) draw(screen *ebiten.Image) {
	var bg color.Color
	switch {
	case !b.enabled:
		bg = color.RGBA{R: 55, G: 65, B: 81, A: 255}
	case b.pressed:
		bg = color.RGBA{R: 0, G: 151, B: 167, A: 255}
	case b.hovered:
		bg = color.RGBA{R: 0, G: 172, B: 193, A: 255}
	default:
		bg = color.RGBA{R: 0, G: 188, B: 212, A: 255}
	}
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), bg, false)
	vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 2, color.RGBA{R: 150, G: 230, B: 240, A: 255}, false)

	textX := b.x + (b.w-len(b.label)*charW)/2
	textY := b.y + (b.h-lineH)/2
	ebitenutil.DebugPrintAt(screen, b.label, textX, textY)
}

// drawProgressBar draws a track with a hue-shifting fill and a knob at
// progress in [0, 1].
func drawProgressBar(screen *ebiten.Image, r rect, progress, phase float64) {
	progress = max(0, min(progress, 1))
	vector.DrawFilledRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), trackFill, false)
	vector.StrokeRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), 2, trackBorder, false)

	if progress > 0 {
		fillWidth := progress * float64(r.w)
		hue := 185 + 60*progress + 10*math.Sin(phase)
		cr, cg, cb := hsvToRgb(hue, 0.8, 0.9)
		vector.DrawFilledRect(screen, float32(r.x), float32(r.y), float32(fillWidth), float32(r.h), color.RGBA{R: cr, G: cg, B: cb, A: 180}, false)
	}

	knobX := float64(r.x) + progress*float64(r.w)
	vector.DrawFilledCircle(screen, float32(knobX), float32(r.y+r.h/2), 8, color.White, true)
	vector.StrokeCircle(screen, float32(knobX), float32(r.y+r.h/2), 8, 2, color.RGBA{R: 100, G: 110, B: 130, A: 255}, true)
}

// drawBadge is a check mark in a disc with a halo of radius r.
func drawBadge(screen *ebiten.Image, cx, cy, r float32, clr color.NRGBA) {
	halo := clr
	halo.A = 60
	vector.DrawFilledCircle(screen, cx, cy, r, halo, true)
	vector.DrawFilledCircle(screen, cx, cy, 12, clr, true)
	vector.StrokeLine(screen, cx-6, cy, cx-2, cy+5, 3, color.Black, true)
	vector.StrokeLine(screen, cx-2, cy+5, cx+6, cy-5, 3, color.Black, true)
}

func drawPanel(screen *ebiten.Image, r rect, fill, border color.Color) {
	vector.DrawFilledRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), fill, false)
	vector.StrokeRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), 1, border, false)
}

// drawBar is one horizontal bar segment.
func drawBar(screen *ebiten.Image, x, y, w, h float64, clr color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

// fit truncates s to at most n characters, marking the cut with "..".
func fit(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 2 {
		return string(r[:n])
	}
	return string(r[:n-2]) + ".."
}

// wrapText splits s into lines of at most width characters, breaking on spaces.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, w := range words {
			for len([]rune(w)) > width {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				rw := []rune(w)
				lines = append(lines, string(rw[:width]))
				w = string(rw[width:])
			}
			switch {
			case line == "":
				line = w
			case len([]rune(line))+1+len([]rune(w)) <= width:
				line += " " + w
			default:
				lines = append(lines, line)
				line = w
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// textInput is a single-line editor fed from ebiten's character input.
type textInput struct {
	runes []rune
	limit int
}

func (t *textInput) insert(rs []rune) {
	for _, r := range rs {
		if r == '\n' || r == '\r' {
			continue
		}
		if t.limit > 0 && len(t.runes) >= t.limit {
			return
		}
		t.runes = append(t.runes, r)
	}
}

func (t *textInput) backspace() {
	if len(t.runes) > 0 {
		t.runes = t.runes[:len(t.runes)-1]
	}
}

// take returns the text and clears the editor.
func (t *textInput) take() string {
	s := string(t.runes)
	t.runes = t.runes[:0]
	return s
}

func (t *textInput) String() string { return string(t.runes) }

// readKeys applies this frame's typed characters and backspace.
func (t *textInput) readKeys() {
	t.insert(ebiten.AppendInputChars(nil))
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) || repeating(ebiten.KeyBackspace) {
		t.backspace()
	}
}

// repeating reports key auto-repeat after a short hold.
func repeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d > 30 && d%4 == 0
}
