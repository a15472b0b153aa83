package config

import (
	"errors"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/edna-dashboard/internal/particle"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EDNA_GEMINI_API_KEY", "")
	t.Setenv("EDNA_FIXTURE", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 12, cfg.Pages.PerPage)
	assert.Equal(t, 30*time.Minute, cfg.Upload.Duration)
	assert.Equal(t, time.Second, cfg.Upload.Tick)
	assert.Equal(t, "gemini-2.5-flash", cfg.Chat.Model)

	bg, err := cfg.Field("background")
	require.NoError(t, err)
	assert.Equal(t, 150, bg.Count)
	assert.Equal(t, particle.Sky, bg.Color)
	assert.True(t, bg.GridBucketing)

	crystal, err := cfg.Field("crystal")
	require.NoError(t, err)
	assert.Equal(t, particle.ShapePolygon, crystal.Shape)
	assert.Equal(t, particle.IntRange{Min: 3, Max: 6}, crystal.Sides)
	assert.Len(t, crystal.Palette, 5)
	assert.Zero(t, crystal.ConnectDistance)

	modal := cfg.MustField("modal")
	assert.Equal(t, 50, modal.Count)
	assert.Equal(t, particle.Range{Min: -0.1, Max: 0.1}, modal.Speed)

	processing := cfg.MustField("processing")
	assert.Equal(t, 80, processing.Count)
}

func TestPresetParameters(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	bg := cfg.MustField("background")
	want := particle.DefaultConfig()
	want.Resize = particle.ResizeRegenerate
	want.GridBucketing = true
	assert.Equal(t, want, bg, "background preset and DefaultConfig agree")

	assert.Equal(t, particle.Range{Min: 1, Max: 3}, bg.Radius)
	assert.Equal(t, particle.Range{Min: 0.2, Max: 1}, bg.Opacity)
	assert.Equal(t, particle.Range{Min: 10, Max: 30}, bg.Pulse)
	assert.Equal(t, 0.01, bg.PulseAmplitude)
	assert.Equal(t, 120.0, bg.ConnectDistance)
	assert.Equal(t, 0.2, bg.MaxEdgeOpacity)
	assert.Equal(t, color.NRGBA{R: 100, G: 200, B: 255, A: 255}, bg.Color)

	modal := cfg.MustField("modal")
	assert.Zero(t, modal.PulseAmplitude, "modal opacity does not oscillate")
	assert.Equal(t, particle.Cyan, modal.Color)
	assert.Equal(t, 100.0, modal.ConnectDistance)

	f := particle.New(200, 200, modal, rand.New(rand.NewSource(1)))
	before := append([]particle.Particle(nil), f.Particles()...)
	for frame := range 120 {
		f.Advance(float64(frame) / 60)
	}
	for i, p := range f.Particles() {
		assert.Equal(t, before[i].Opacity, p.Opacity)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
window:
  width: 640
fields:
  background:
    count: 40
    resize: rescale
upload:
  duration: 10s
  tick: 500ms
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height, "untouched fields keep defaults")

	bg := cfg.MustField("background")
	assert.Equal(t, 40, bg.Count)
	assert.Equal(t, particle.ResizeRescale, bg.Resize)
	assert.Equal(t, 120.0, bg.ConnectDistance, "preset fields not in file keep defaults")

	assert.Equal(t, 10*time.Second, cfg.Upload.Duration)
	assert.Equal(t, 500*time.Millisecond, cfg.Upload.Tick)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad shape", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("fields:\n  modal:\n    shape: hexagon\n"), 0644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "fields.modal")
	})

	t.Run("tick longer than duration", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("upload:\n  duration: 1s\n  tick: 2s\n"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestUnknownPreset(t *testing.T) {
	_, err := Default().Field("sparkles")
	assert.True(t, errors.Is(err, ErrUnknownPreset))
}

func TestEnvOverrides(t *testing.T) {
	t.Run("api key from env", func(t *testing.T) {
		t.Setenv("EDNA_GEMINI_API_KEY", "env-key")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "env-key", cfg.Chat.APIKey)
	})

	t.Run("file key wins over env", func(t *testing.T) {
		t.Setenv("EDNA_GEMINI_API_KEY", "env-key")
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("chat:\n  api_key: file-key\n"), 0644))
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "file-key", cfg.Chat.APIKey)
	})

	t.Run("fixture path from env", func(t *testing.T) {
		t.Setenv("EDNA_FIXTURE", "/tmp/analysis.json")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/analysis.json", cfg.Fixture.Path)
	})
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	t.Setenv("EDNA_GEMINI_API_KEY", "secret")
	cfg, err := Load("")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	t.Setenv("EDNA_GEMINI_API_KEY", "")
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Fields, again.Fields)
	assert.Equal(t, cfg.Upload, again.Upload)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		err  bool
	}{
		{"#22d3ee", color.NRGBA{R: 0x22, G: 0xd3, B: 0xee, A: 0xff}, false},
		{"#fff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, false},
		{"c084fc80", color.NRGBA{R: 0xc0, G: 0x84, B: 0xfc, A: 0x80}, false},
		{"#12345", color.NRGBA{}, true},
		{"#zzzzzz", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
