// Package particle implements the animated particle field drawn behind the
// dashboard views: drifting points on a toroidal viewport joined by fading
// proximity edges.
package particle

import (
	"image/color"
	"math"
	"math/rand"
	"time"
)

// Particle is one point of the field. Velocity is fixed at creation.
type Particle struct {
	X, Y     float64
	VX, VY   float64
	Radius   float64
	Opacity  float64
	Pulse    float64 // opacity oscillation rate
	Color    color.NRGBA
	Sides    int     // polygon only
	Rotation float64 // polygon only, degrees
}

// Edge joins particles I < J whose distance is under the connect distance.
type Edge struct {
	I, J    int
	Dist    float64
	Opacity float64
}

// Stats summarises the field after the last render.
type Stats struct {
	Particles   int
	Edges       int
	MeanOpacity float64
}

// Field owns a fixed-size particle set on a width x height viewport.
type Field struct {
	cfg    Config
	rng    *rand.Rand
	width  float64
	height float64

	particles []Particle
	grid      *grid
	edges     []Edge
	lastEdges int
}

// New allocates cfg.Count particles spread uniformly over the viewport.
// A zero-area viewport yields an empty field until the next Resize.
// A nil rng falls back to a time-seeded source.
func New(width, height float64, cfg Config, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	f := &Field{
		cfg:       cfg,
		rng:       rng,
		width:     width,
		height:    height,
		particles: make([]Particle, 0, cfg.Count),
	}
	f.spawn()
	return f
}

// Config returns the field's parameters.
func (f *Field) Config() Config { return f.cfg }

// Size returns the current viewport extent.
func (f *Field) Size() (float64, float64) { return f.width, f.height }

// Particles exposes the live particle slice. Callers may reposition
// particles between frames; the slice length must not change.
func (f *Field) Particles() []Particle { return f.particles }

// Len returns the population size.
func (f *Field) Len() int { return len(f.particles) }

func (f *Field) available() bool {
	return f.width > 0 && f.height > 0
}

func (f *Field) spawn() {
	f.particles = f.particles[:0]
	if !f.available() {
		return
	}
	for range f.cfg.Count {
		f.particles = append(f.particles, f.newParticle())
	}
}

func (f *Field) newParticle() Particle {
	p := Particle{
		X:       f.rng.Float64() * f.width,
		Y:       f.rng.Float64() * f.height,
		VX:      f.uniform(f.cfg.Speed),
		VY:      f.uniform(f.cfg.Speed),
		Radius:  f.uniform(f.cfg.Radius),
		Opacity: f.uniform(f.cfg.Opacity),
		Pulse:   f.uniform(f.cfg.Pulse),
		Color:   f.cfg.Color,
	}
	if n := len(f.cfg.Palette); n > 0 {
		p.Color = f.cfg.Palette[f.rng.Intn(n)]
	}
	if f.cfg.Shape == ShapePolygon {
		p.Sides = f.cfg.Sides.Min + f.rng.Intn(f.cfg.Sides.Max-f.cfg.Sides.Min+1)
		p.Rotation = f.rng.Float64() * 360
	}
	return p
}

func (f *Field) uniform(r Range) float64 {
	return r.Min + f.rng.Float64()*(r.Max-r.Min)
}

// Advance moves every particle one frame. t is the host clock in seconds and
// drives the opacity oscillation. Positions wrap to the opposite edge.
func (f *Field) Advance(t float64) {
	if !f.available() {
		return
	}
	amp := f.cfg.PulseAmplitude
	for i := range f.particles {
		p := &f.particles[i]
		p.X = wrap(p.X+p.VX, f.width)
		p.Y = wrap(p.Y+p.VY, f.height)
		p.Opacity = clamp01(p.Opacity + math.Sin(t*p.Pulse)*amp)
		if f.cfg.Shape == ShapePolygon {
			p.Rotation = math.Mod(p.Rotation+f.cfg.Spin, 360)
		}
	}
}

// wrap folds v into [0, extent).
func wrap(v, extent float64) float64 {
	v = math.Mod(v, extent)
	if v < 0 {
		v += extent
	}
	// v+extent can round up to extent for tiny negative v
	if v >= extent {
		v = 0
	}
	return v
}

// Render clears s and draws the particles followed by their edges.
// It does not mutate particle state, so repeated calls draw the same frame.
func (f *Field) Render(s Surface) {
	if surfaceReady(s) != nil || !f.available() {
		return
	}
	s.Clear()
	for i := range f.particles {
		f.drawParticle(s, &f.particles[i])
	}

	f.edges = f.Edges(f.edges[:0])
	for _, e := range f.edges {
		a, b := &f.particles[e.I], &f.particles[e.J]
		s.StrokeLine(a.X, a.Y, b.X, b.Y, f.cfg.EdgeWidth, withOpacity(f.cfg.Color, e.Opacity))
	}
	f.lastEdges = len(f.edges)
}

func (f *Field) drawParticle(s Surface, p *Particle) {
	if f.cfg.Shape != ShapePolygon || p.Sides < 3 {
		s.FillCircle(p.X, p.Y, p.Radius, withOpacity(p.Color, p.Opacity))
		return
	}

	// Faint core stands in for the radial gradient fill.
	s.FillCircle(p.X, p.Y, p.Radius*0.6, withOpacity(p.Color, p.Opacity*0.25))

	rot := p.Rotation * math.Pi / 180
	step := 2 * math.Pi / float64(p.Sides)
	clr := withOpacity(p.Color, p.Opacity)
	x0 := p.X + p.Radius*math.Cos(rot)
	y0 := p.Y + p.Radius*math.Sin(rot)
	for i := 1; i <= p.Sides; i++ {
		a := rot + float64(i)*step
		x1 := p.X + p.Radius*math.Cos(a)
		y1 := p.Y + p.Radius*math.Sin(a)
		s.StrokeLine(x0, y0, x1, y1, 1, clr)
		x0, y0 = x1, y1
	}
}

// Edges appends every connected pair to dst, ordered by (I, J).
func (f *Field) Edges(dst []Edge) []Edge {
	cd := f.cfg.ConnectDistance
	if cd <= 0 || len(f.particles) < 2 {
		return dst
	}
	if f.cfg.GridBucketing {
		return f.gridEdges(dst)
	}
	for i := 0; i < len(f.particles); i++ {
		for j := i + 1; j < len(f.particles); j++ {
			dst = f.appendEdge(dst, i, j)
		}
	}
	return dst
}

func (f *Field) appendEdge(dst []Edge, i, j int) []Edge {
	a, b := &f.particles[i], &f.particles[j]
	d := math.Hypot(a.X-b.X, a.Y-b.Y)
	if d >= f.cfg.ConnectDistance {
		return dst
	}
	return append(dst, Edge{I: i, J: j, Dist: d, Opacity: EdgeOpacity(d, f.cfg.ConnectDistance, f.cfg.MaxEdgeOpacity)})
}

// EdgeOpacity decays linearly from maxOpacity at distance 0 to 0 at connect.
func EdgeOpacity(dist, connect, maxOpacity float64) float64 {
	if connect <= 0 || dist >= connect {
		return 0
	}
	return (1 - dist/connect) * maxOpacity
}

// PairOpacity is the edge opacity the field would draw between a and b.
func (f *Field) PairOpacity(a, b Particle) float64 {
	return EdgeOpacity(math.Hypot(a.X-b.X, a.Y-b.Y), f.cfg.ConnectDistance, f.cfg.MaxEdgeOpacity)
}

// Resize adapts the field to a new viewport. The default mode regenerates the
// whole set; ResizeRescale keeps particles and scales their positions.
func (f *Field) Resize(width, height float64) {
	if width == f.width && height == f.height {
		return
	}
	oldW, oldH := f.width, f.height
	f.width, f.height = width, height
	f.grid = nil

	if f.cfg.Resize == ResizeRescale && oldW > 0 && oldH > 0 && f.available() && len(f.particles) == f.cfg.Count {
		sx, sy := width/oldW, height/oldH
		for i := range f.particles {
			p := &f.particles[i]
			p.X = wrap(p.X*sx, width)
			p.Y = wrap(p.Y*sy, height)
		}
		return
	}
	f.spawn()
}

// Stats reports population, edges drawn by the last Render and mean opacity.
func (f *Field) Stats() Stats {
	st := Stats{Particles: len(f.particles), Edges: f.lastEdges}
	if len(f.particles) == 0 {
		return st
	}
	var sum float64
	for i := range f.particles {
		sum += f.particles[i].Opacity
	}
	st.MeanOpacity = sum / float64(len(f.particles))
	return st
}

func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(math.Round(clamp01(opacity) * float64(c.A)))
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
