package audio

import (
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

func TestToneLength(t *testing.T) {
	sr := beep.SampleRate(8000)
	assert.Equal(t, sr.N(100*time.Millisecond), drain(Tone(sr, 440, 100*time.Millisecond, 0.5)))
}

func TestToneStaysWithinGain(t *testing.T) {
	sr := beep.SampleRate(8000)
	s := Tone(sr, 440, 50*time.Millisecond, 0.5)
	buf := make([][2]float64, 1000)
	n, ok := s.Stream(buf)
	require.True(t, ok)
	for _, v := range buf[:n] {
		assert.LessOrEqual(t, math.Abs(v[0]), 0.5)
		assert.Equal(t, v[0], v[1])
	}
}

func TestChimeLength(t *testing.T) {
	sr := beep.SampleRate(8000)
	want := sr.N(160*time.Millisecond) + sr.N(40*time.Millisecond) + sr.N(260*time.Millisecond)
	assert.Equal(t, want, drain(Chime(sr)))
}

func TestTapRecordsRecentSamples(t *testing.T) {
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{float64(i), float64(i)}
		}
		return len(samples), true
	})
	tap := NewTap(src, 4)
	assert.Zero(t, tap.Level())
	assert.Empty(t, tap.Snapshot(4))

	buf := make([][2]float64, 6)
	_, ok := tap.Stream(buf)
	require.True(t, ok)

	got := tap.Snapshot(10)
	assert.Equal(t, [][2]float64{{2, 2}, {3, 3}, {4, 4}, {5, 5}}, got)
	assert.Equal(t, [][2]float64{{4, 4}, {5, 5}}, tap.Snapshot(2))

	tap.Reset()
	assert.Zero(t, tap.Level())
}

func TestTapLevelOfTone(t *testing.T) {
	sr := beep.SampleRate(8000)
	tap := NewTap(Tone(sr, 400, 10*time.Second, 0.5), 400)
	buf := make([][2]float64, 400)
	tap.Stream(buf)

	// Near the start the envelope is close to 1, so RMS ≈ gain/√2.
	assert.InDelta(t, 0.5/math.Sqrt2, tap.Level(), 0.03)
	assert.NoError(t, tap.Err())
}
