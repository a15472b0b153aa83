package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/iburimskiy/edna-dashboard/internal/particle"
)

// FieldConfig is the YAML form of a particle preset.
type FieldConfig struct {
	Count           int        `yaml:"count"`
	Speed           [2]float64 `yaml:"speed"`
	Radius          [2]float64 `yaml:"radius"`
	Opacity         [2]float64 `yaml:"opacity"`
	Pulse           [2]float64 `yaml:"pulse"`
	PulseAmplitude  float64    `yaml:"pulse_amplitude"`
	ConnectDistance float64    `yaml:"connect_distance"`
	MaxEdgeOpacity  float64    `yaml:"max_edge_opacity"`
	EdgeWidth       float64    `yaml:"edge_width"`
	Color           string     `yaml:"color"`
	Palette         []string   `yaml:"palette,omitempty"`
	Shape           string     `yaml:"shape"`
	Sides           [2]int     `yaml:"sides,omitempty"`
	Spin            float64    `yaml:"spin,omitempty"`
	Resize          string     `yaml:"resize"`
	GridBucketing   bool       `yaml:"grid_bucketing,omitempty"`
}

// Field returns the engine configuration for a named preset.
func (c *Config) Field(name string) (particle.Config, error) {
	var fc FieldConfig
	switch name {
	case "background":
		fc = c.Fields.Background
	case "crystal":
		fc = c.Fields.Crystal
	case "modal":
		fc = c.Fields.Modal
	case "processing":
		fc = c.Fields.Processing
	default:
		return particle.Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	pc, err := fc.Particle()
	if err != nil {
		return particle.Config{}, fmt.Errorf("config: fields.%s: %w", name, err)
	}
	return pc, nil
}

// MustField is Field for presets known to exist after Validate.
func (c *Config) MustField(name string) particle.Config {
	pc, err := c.Field(name)
	if err != nil {
		panic(err)
	}
	return pc
}

// Particle converts the preset and validates it.
func (fc FieldConfig) Particle() (particle.Config, error) {
	shape, err := particle.ParseShape(fc.Shape)
	if err != nil {
		return particle.Config{}, err
	}
	resize, err := particle.ParseResizeMode(fc.Resize)
	if err != nil {
		return particle.Config{}, err
	}
	clr, err := ParseHexColor(fc.Color)
	if err != nil {
		return particle.Config{}, err
	}

	pc := particle.Config{
		Count:           fc.Count,
		Speed:           particle.Range{Min: fc.Speed[0], Max: fc.Speed[1]},
		Radius:          particle.Range{Min: fc.Radius[0], Max: fc.Radius[1]},
		Opacity:         particle.Range{Min: fc.Opacity[0], Max: fc.Opacity[1]},
		Pulse:           particle.Range{Min: fc.Pulse[0], Max: fc.Pulse[1]},
		PulseAmplitude:  fc.PulseAmplitude,
		ConnectDistance: fc.ConnectDistance,
		MaxEdgeOpacity:  fc.MaxEdgeOpacity,
		EdgeWidth:       fc.EdgeWidth,
		Color:           clr,
		Shape:           shape,
		Sides:           particle.IntRange{Min: fc.Sides[0], Max: fc.Sides[1]},
		Spin:            fc.Spin,
		Resize:          resize,
		GridBucketing:   fc.GridBucketing,
	}
	for _, s := range fc.Palette {
		c, err := ParseHexColor(s)
		if err != nil {
			return particle.Config{}, err
		}
		pc.Palette = append(pc.Palette, c)
	}
	if pc.EdgeWidth <= 0 {
		pc.EdgeWidth = 1
	}
	return pc, pc.Validate()
}

// ParseHexColor parses #rgb, #rrggbb or #rrggbbaa.
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
