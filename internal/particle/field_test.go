package particle

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func assertInBounds(t *testing.T, f *Field) {
	t.Helper()
	w, h := f.Size()
	for i, p := range f.Particles() {
		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
			t.Fatalf("particle %d at (%v, %v) outside [0,%v)x[0,%v)", i, p.X, p.Y, w, h)
		}
	}
}

func TestNewPopulation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 150
	f := New(800, 600, cfg, seeded(1))

	require.Equal(t, 150, f.Len())
	assertInBounds(t, f)
	for _, p := range f.Particles() {
		assert.GreaterOrEqual(t, p.VX, cfg.Speed.Min)
		assert.LessOrEqual(t, p.VX, cfg.Speed.Max)
		assert.GreaterOrEqual(t, p.Radius, cfg.Radius.Min)
		assert.LessOrEqual(t, p.Radius, cfg.Radius.Max)
		assert.GreaterOrEqual(t, p.Opacity, cfg.Opacity.Min)
		assert.LessOrEqual(t, p.Opacity, cfg.Opacity.Max)
	}
}

func TestNewZeroAreaIsEmpty(t *testing.T) {
	f := New(0, 600, DefaultConfig(), seeded(1))
	assert.Equal(t, 0, f.Len())

	f.Resize(320, 200)
	assert.Equal(t, DefaultConfig().Count, f.Len())
	assertInBounds(t, f)
}

func TestAdvanceStaysInBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Speed = Range{Min: -7.5, Max: 7.5}
	f := New(320, 240, cfg, seeded(42))

	for frame := range 2000 {
		f.Advance(float64(frame) / 60)
	}
	assertInBounds(t, f)
	for _, p := range f.Particles() {
		assert.GreaterOrEqual(t, p.Opacity, 0.0)
		assert.LessOrEqual(t, p.Opacity, 1.0)
	}
}

func TestAdvanceWraps(t *testing.T) {
	tests := []struct {
		name  string
		x, vx float64
		wantX float64
		width float64
	}{
		{"right edge", 800 - 0.1, 1, 0.9, 800},
		{"left edge", 0.2, -1, 799.2, 800},
		{"exact extent", 799, 1, 0, 800},
		{"interior", 100, 0.5, 100.5, 800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Count = 1
			f := New(tt.width, 600, cfg, seeded(3))
			p := &f.Particles()[0]
			p.X, p.Y = tt.x, 300
			p.VX, p.VY = tt.vx, 0

			f.Advance(0)

			assert.InDelta(t, tt.wantX, f.Particles()[0].X, 1e-9)
			assertInBounds(t, f)
		})
	}
}

func TestVelocityNeverChanges(t *testing.T) {
	f := New(200, 200, DefaultConfig(), seeded(9))
	before := make([][2]float64, f.Len())
	for i, p := range f.Particles() {
		before[i] = [2]float64{p.VX, p.VY}
	}
	for frame := range 500 {
		f.Advance(float64(frame))
	}
	for i, p := range f.Particles() {
		assert.Equal(t, before[i], [2]float64{p.VX, p.VY})
	}
}

func TestEdgeOpacity(t *testing.T) {
	assert.Equal(t, 0.1, EdgeOpacity(0, 100, 0.1))
	assert.Equal(t, 0.0, EdgeOpacity(100, 100, 0.1))
	assert.Equal(t, 0.0, EdgeOpacity(150, 100, 0.1))
	assert.InDelta(t, 0.05, EdgeOpacity(50, 100, 0.1), 1e-12)
	assert.Equal(t, 0.0, EdgeOpacity(0, 0, 0.1))
}

func TestPairOpacitySymmetric(t *testing.T) {
	f := New(400, 400, DefaultConfig(), seeded(5))
	ps := f.Particles()
	for i := 0; i < 20; i++ {
		for j := i + 1; j < 20; j++ {
			assert.Equal(t, f.PairOpacity(ps[i], ps[j]), f.PairOpacity(ps[j], ps[i]))
		}
	}
}

func TestTwoParticleScenario(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 2
	cfg.ConnectDistance = 100
	f := New(800, 600, cfg, seeded(1))
	ps := f.Particles()
	ps[0].X, ps[0].Y, ps[0].VX, ps[0].VY = 0, 0, 0, 0
	ps[1].X, ps[1].Y, ps[1].VX, ps[1].VY = 50, 0, 0, 0

	f.Advance(0)
	rec := NewRecorder(800, 600)
	f.Render(rec)

	edges := f.Edges(nil)
	require.Len(t, edges, 1)
	assert.InDelta(t, (1-50.0/100)*cfg.MaxEdgeOpacity, edges[0].Opacity, 1e-12)
	assert.Len(t, rec.Lines(), 1)
	assert.Len(t, rec.Circles(), 2)
	assert.Equal(t, 1, f.Stats().Edges)
}

func TestEdgeAtExactConnectDistance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 2
	f := New(800, 600, cfg, seeded(1))
	ps := f.Particles()
	ps[0].X, ps[0].Y = 100, 100
	ps[1].X, ps[1].Y = 100+cfg.ConnectDistance, 100

	assert.Empty(t, f.Edges(nil))
	assert.Equal(t, 0.0, f.PairOpacity(ps[0], ps[1]))

	ps[1].X = 100
	edges := f.Edges(nil)
	require.Len(t, edges, 1)
	assert.Equal(t, cfg.MaxEdgeOpacity, edges[0].Opacity)
}

func TestRenderIdempotent(t *testing.T) {
	f := New(640, 480, DefaultConfig(), seeded(11))
	f.Advance(1)

	first := NewRecorder(640, 480)
	f.Render(first)
	second := NewRecorder(640, 480)
	f.Render(second)

	if diff := cmp.Diff(first.Ops, second.Ops); diff != "" {
		t.Fatalf("render not idempotent (-first +second):\n%s", diff)
	}
	assert.Equal(t, OpClear, first.Ops[0].Kind)
}

func TestRenderUnavailableSurface(t *testing.T) {
	f := New(640, 480, DefaultConfig(), seeded(11))
	rec := NewRecorder(0, 0)
	f.Render(rec)
	assert.Empty(t, rec.Ops)

	f.Render(nil)
}

func TestGridBucketingMatchesBruteForce(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4} {
		cfg := DefaultConfig()
		cfg.Count = 200
		brute := New(900, 700, cfg, seeded(seed))

		cfg.GridBucketing = true
		bucketed := New(900, 700, cfg, seeded(seed))

		want := brute.Edges(nil)
		got := bucketed.Edges(nil)
		require.NotEmpty(t, want)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("seed %d: grid edges differ (-brute +grid):\n%s", seed, diff)
		}
	}
}

func TestResizeRegenerates(t *testing.T) {
	f := New(800, 600, DefaultConfig(), seeded(21))
	before := append([]Particle(nil), f.Particles()...)

	f.Resize(400, 300)
	assert.Equal(t, len(before), f.Len())
	assertInBounds(t, f)
	assert.NotEqual(t, before, f.Particles())
}

func TestResizeRescale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resize = ResizeRescale
	f := New(800, 600, cfg, seeded(21))
	before := append([]Particle(nil), f.Particles()...)

	f.Resize(400, 300)
	require.Equal(t, len(before), f.Len())
	for i, p := range f.Particles() {
		assert.InDelta(t, before[i].X/2, p.X, 1e-9)
		assert.InDelta(t, before[i].Y/2, p.Y, 1e-9)
	}
	assertInBounds(t, f)
}

func TestPaletteDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Palette = []color.NRGBA{{R: 1, G: 2, B: 3, A: 255}, {R: 4, G: 5, B: 6, A: 255}}

	a := New(100, 100, cfg, seeded(7))
	b := New(100, 100, cfg, seeded(7))
	for i := range a.Particles() {
		assert.Equal(t, a.Particles()[i].Color, b.Particles()[i].Color)
		assert.Contains(t, cfg.Palette, a.Particles()[i].Color)
	}
}

func TestPolygonRendering(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 1
	cfg.Shape = ShapePolygon
	cfg.Sides = IntRange{Min: 5, Max: 5}
	cfg.Radius = Range{Min: 20, Max: 20}
	cfg.ConnectDistance = 0
	cfg.Spin = 0.05
	f := New(300, 300, cfg, seeded(2))

	rot := f.Particles()[0].Rotation
	f.Advance(0)
	assert.InDelta(t, math.Mod(rot+0.05, 360), f.Particles()[0].Rotation, 1e-9)

	rec := NewRecorder(300, 300)
	f.Render(rec)
	assert.Len(t, rec.Lines(), 5)
	assert.Len(t, rec.Circles(), 1)
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.Radius = Range{Min: 0, Max: 1}
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Opacity = Range{Min: 0.5, Max: 1.5}
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Shape = ShapePolygon
	bad.Sides = IntRange{Min: 2, Max: 4}
	assert.Error(t, bad.Validate())
}
