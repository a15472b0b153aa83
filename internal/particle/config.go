package particle

import (
	"errors"
	"fmt"
	"image/color"
)

// Shape selects how a particle is drawn.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapePolygon
)

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapePolygon:
		return "polygon"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// ParseShape maps a config name to a Shape.
func ParseShape(name string) (Shape, error) {
	switch name {
	case "", "circle":
		return ShapeCircle, nil
	case "polygon":
		return ShapePolygon, nil
	}
	return ShapeCircle, fmt.Errorf("unknown particle shape %q", name)
}

// ResizeMode controls what happens to existing particles when the viewport changes size.
type ResizeMode int

const (
	// ResizeRegenerate throws the set away and spawns a fresh one at random positions.
	ResizeRegenerate ResizeMode = iota
	// ResizeRescale keeps every particle and scales its position to the new extent.
	ResizeRescale
)

// ParseResizeMode maps a config name to a ResizeMode.
func ParseResizeMode(name string) (ResizeMode, error) {
	switch name {
	case "", "regenerate":
		return ResizeRegenerate, nil
	case "rescale":
		return ResizeRescale, nil
	}
	return ResizeRegenerate, fmt.Errorf("unknown resize mode %q", name)
}

// Range is a closed float interval sampled uniformly.
type Range struct {
	Min, Max float64
}

func (r Range) valid() bool { return r.Min <= r.Max }

// IntRange is a closed integer interval sampled uniformly.
type IntRange struct {
	Min, Max int
}

// Config parameterises one particle field instance.
type Config struct {
	Count int

	Speed   Range // per-axis velocity, px/frame
	Radius  Range
	Opacity Range

	// Opacity oscillation: opacity += sin(t*pulse) * PulseAmplitude
	Pulse          Range
	PulseAmplitude float64

	// Pairs closer than ConnectDistance get an edge. Zero disables edges.
	ConnectDistance float64
	MaxEdgeOpacity  float64
	EdgeWidth       float64

	Color   color.NRGBA
	Palette []color.NRGBA // when set, each particle picks one at creation

	Shape Shape
	Sides IntRange // polygon only
	Spin  float64  // polygon rotation, degrees/frame

	Resize        ResizeMode
	GridBucketing bool
}

var (
	// Cyan is the accent colour of the panel and modal fields.
	Cyan = color.NRGBA{R: 34, G: 211, B: 238, A: 255}
	// Sky is the full-page background colour.
	Sky = color.NRGBA{R: 100, G: 200, B: 255, A: 255}
)

// DefaultConfig returns the full-page background field. Pulse is in
// radians per second of host clock.
func DefaultConfig() Config {
	return Config{
		Count:           150,
		Speed:           Range{Min: -0.25, Max: 0.25},
		Radius:          Range{Min: 1, Max: 3},
		Opacity:         Range{Min: 0.2, Max: 1.0},
		Pulse:           Range{Min: 10, Max: 30},
		PulseAmplitude:  0.01,
		ConnectDistance: 120,
		MaxEdgeOpacity:  0.2,
		EdgeWidth:       1,
		Color:           Sky,
		Shape:           ShapeCircle,
	}
}

var errInvalidConfig = errors.New("invalid particle config")

// Validate reports the first inconsistent parameter.
func (c Config) Validate() error {
	switch {
	case c.Count < 0:
		return fmt.Errorf("%w: count %d < 0", errInvalidConfig, c.Count)
	case !c.Speed.valid():
		return fmt.Errorf("%w: speed range %v", errInvalidConfig, c.Speed)
	case !c.Radius.valid() || c.Radius.Min <= 0:
		return fmt.Errorf("%w: radius range %v must be positive", errInvalidConfig, c.Radius)
	case !c.Opacity.valid() || c.Opacity.Min < 0 || c.Opacity.Max > 1:
		return fmt.Errorf("%w: opacity range %v outside [0,1]", errInvalidConfig, c.Opacity)
	case !c.Pulse.valid():
		return fmt.Errorf("%w: pulse range %v", errInvalidConfig, c.Pulse)
	case c.ConnectDistance < 0:
		return fmt.Errorf("%w: connect distance %v < 0", errInvalidConfig, c.ConnectDistance)
	case c.MaxEdgeOpacity < 0 || c.MaxEdgeOpacity > 1:
		return fmt.Errorf("%w: max edge opacity %v outside [0,1]", errInvalidConfig, c.MaxEdgeOpacity)
	}
	if c.Shape == ShapePolygon && (c.Sides.Min < 3 || c.Sides.Min > c.Sides.Max) {
		return fmt.Errorf("%w: polygon sides %v", errInvalidConfig, c.Sides)
	}
	return nil
}
