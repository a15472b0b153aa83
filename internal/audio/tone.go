// Package audio plays the completion chime and exposes its live level so the
// upload view can pulse with it.
package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// SampleRate is the rate the speaker is opened at.
const SampleRate = beep.SampleRate(44100)

// Tone returns a decaying sine of the given frequency and length.
func Tone(sr beep.SampleRate, freq float64, d time.Duration, gain float64) beep.Streamer {
	total := sr.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				break
			}
			t := float64(pos) / float64(sr)
			env := math.Exp(-6 * float64(pos) / float64(total))
			v := gain * env * math.Sin(2*math.Pi*freq*t)
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}

// Chime is the two-note completion sound.
func Chime(sr beep.SampleRate) beep.Streamer {
	return beep.Seq(
		Tone(sr, 880, 160*time.Millisecond, 0.35),
		beep.Silence(sr.N(40*time.Millisecond)),
		Tone(sr, 1320, 260*time.Millisecond, 0.3),
	)
}
