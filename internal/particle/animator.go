package particle

import "math/rand"

// Animator binds one field to one hosting view. The host calls Mount when the
// view appears, Frame once per frame, Resize on viewport changes and Teardown
// when the view goes away. After Teardown every call is a no-op until the
// next Mount.
type Animator struct {
	cfg     Config
	rng     *rand.Rand
	field   *Field
	mounted bool
	skipped int
}

// NewAnimator prepares an animator; nothing is allocated until Mount.
func NewAnimator(cfg Config, rng *rand.Rand) *Animator {
	return &Animator{cfg: cfg, rng: rng}
}

// Mount creates the particle set for a w x h viewport.
func (a *Animator) Mount(w, h int) {
	a.field = New(float64(w), float64(h), a.cfg, a.rng)
	a.mounted = true
	a.skipped = 0
}

// Mounted reports whether the animator currently owns a field.
func (a *Animator) Mounted() bool { return a.mounted }

// Field returns the live field, or nil when unmounted.
func (a *Animator) Field() *Field {
	if !a.mounted {
		return nil
	}
	return a.field
}

// Resize regenerates (or rescales) the set immediately.
func (a *Animator) Resize(w, h int) {
	if !a.mounted {
		return
	}
	a.field.Resize(float64(w), float64(h))
}

// Frame advances and renders one frame. An unavailable surface skips the
// frame without touching particle state.
func (a *Animator) Frame(t float64, s Surface) {
	if !a.mounted {
		return
	}
	if err := surfaceReady(s); err != nil {
		a.skipped++
		return
	}
	if w, h := s.Size(); float64(w) != a.field.width || float64(h) != a.field.height {
		a.field.Resize(float64(w), float64(h))
	}
	a.field.Advance(t)
	a.field.Render(s)
}

// Skipped counts frames dropped because the surface was unavailable.
func (a *Animator) Skipped() int { return a.skipped }

// Teardown discards the particle set.
func (a *Animator) Teardown() {
	a.mounted = false
	a.field = nil
}
