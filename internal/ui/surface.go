package ui

import (
	"image/color"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/edna-dashboard/internal/particle"
)

// imageSurface draws engine output onto an offscreen ebiten image.
type imageSurface struct {
	img *ebiten.Image
}

func (s imageSurface) Clear() {
	if s.img != nil {
		s.img.Clear()
	}
}

func (s imageSurface) FillCircle(x, y, r float64, clr color.NRGBA) {
	vector.DrawFilledCircle(s.img, float32(x), float32(y), float32(r), clr, true)
}

func (s imageSurface) StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA) {
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), clr, true)
}

func (s imageSurface) Size() (int, int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// fieldLayer is one mounted particle field with its own canvas, drawn into
// a rectangle of the screen.
type fieldLayer struct {
	name  string
	anim  *particle.Animator
	img   *ebiten.Image
	x, y  int
	alpha float32
}

func newFieldLayer(name string, cfg particle.Config, rng *rand.Rand) *fieldLayer {
	return &fieldLayer{name: name, anim: particle.NewAnimator(cfg, rng), alpha: 1}
}

// place mounts the field on first use and resizes it when the rectangle changes.
func (l *fieldLayer) place(x, y, w, h int) {
	l.x, l.y = x, y
	cw, ch := imageSurface{l.img}.Size()
	if l.anim.Mounted() && cw == w && ch == h {
		return
	}
	if l.img != nil {
		l.img.Deallocate()
		l.img = nil
	}
	if w > 0 && h > 0 {
		l.img = ebiten.NewImage(w, h)
	}
	if !l.anim.Mounted() {
		l.anim.Mount(w, h)
		return
	}
	l.anim.Resize(w, h)
}

// step advances and renders one frame at time t seconds.
func (l *fieldLayer) step(t float64) {
	if !l.anim.Mounted() {
		return
	}
	l.anim.Frame(t, imageSurface{l.img})
}

func (l *fieldLayer) draw(screen *ebiten.Image) {
	if l.img == nil || !l.anim.Mounted() {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(l.x), float64(l.y))
	op.ColorScale.ScaleAlpha(l.alpha)
	screen.DrawImage(l.img, op)
}

// teardown stops the field and frees its canvas.
func (l *fieldLayer) teardown() {
	l.anim.Teardown()
	if l.img != nil {
		l.img.Deallocate()
		l.img = nil
	}
}
