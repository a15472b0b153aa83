package audio

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// Tap wraps a beep.Streamer and keeps the last N samples in a ring buffer so
// the renderer can read the level of what is playing.
type Tap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	filled    int
	mu        sync.RWMutex
}

func NewTap(src beep.Streamer, ringSize int) *Tap {
	return &Tap{
		Source: src,
		buffer: make([][2]float64, max(ringSize, 1)),
	}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex = (t.nextIndex + 1) % len(t.buffer)
		}
		t.filled = min(t.filled+n, len(t.buffer))
		t.mu.Unlock()
	}
	return n, ok
}

func (t *Tap) Err() error { return t.Source.Err() }

// Snapshot returns up to the last n samples, oldest first.
func (t *Tap) Snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, t.filled)
	out := make([][2]float64, n)
	idx := t.nextIndex - n
	if idx < 0 {
		idx += len(t.buffer)
	}
	for i := range out {
		out[i] = t.buffer[idx]
		idx = (idx + 1) % len(t.buffer)
	}
	return out
}

// Level is the RMS of the buffered samples, in [0, 1] for unclipped audio.
func (t *Tap) Level() float64 {
	s := t.Snapshot(len(t.buffer))
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		m := (v[0] + v[1]) / 2
		sum += m * m
	}
	return math.Sqrt(sum / float64(len(s)))
}

// Reset forgets buffered samples.
func (t *Tap) Reset() {
	t.mu.Lock()
	t.filled = 0
	t.nextIndex = 0
	t.mu.Unlock()
}
