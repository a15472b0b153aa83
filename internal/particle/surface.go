package particle

import (
	"errors"
	"image/color"
)

// ErrUnavailableSurface means the viewport has no area or no drawing context.
// It is a normal lifecycle state: the frame is skipped and tried again on the
// next scheduled frame or resize.
var ErrUnavailableSurface = errors.New("particle: rendering surface unavailable")

// Surface is the drawing context a host hands to the field.
type Surface interface {
	Clear()
	FillCircle(x, y, r float64, clr color.NRGBA)
	StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA)
	Size() (w, h int)
}

// OpKind tags a recorded draw call.
type OpKind int

const (
	OpClear OpKind = iota
	OpCircle
	OpLine
)

// Op is one draw call captured by a Recorder.
type Op struct {
	Kind   OpKind
	X0, Y0 float64
	X1, Y1 float64
	R      float64 // circle radius or line width
	Color  color.NRGBA
}

// Recorder is an in-memory Surface. Clear drops everything recorded so far,
// so after a Render the recorder holds exactly one frame.
type Recorder struct {
	W, H int
	Ops  []Op
}

// NewRecorder returns a recorder reporting the given size.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Clear() {
	r.Ops = append(r.Ops[:0], Op{Kind: OpClear})
}

func (r *Recorder) FillCircle(x, y, radius float64, clr color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, X0: x, Y0: y, R: radius, Color: clr})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X0: x0, Y0: y0, X1: x1, Y1: y1, R: width, Color: clr})
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

// Circles returns the recorded circle calls.
func (r *Recorder) Circles() []Op { return r.filter(OpCircle) }

// Lines returns the recorded line calls.
func (r *Recorder) Lines() []Op { return r.filter(OpLine) }

func (r *Recorder) filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func surfaceReady(s Surface) error {
	if s == nil {
		return ErrUnavailableSurface
	}
	if w, h := s.Size(); w <= 0 || h <= 0 {
		return ErrUnavailableSurface
	}
	return nil
}
