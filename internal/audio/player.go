package audio

import (
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"go.uber.org/zap"
)

// Player owns the speaker. The speaker is opened lazily on the first Play.
type Player struct {
	log     *zap.Logger
	once    sync.Once
	initErr error

	mu      sync.Mutex
	tap     *Tap
	playing bool
}

func NewPlayer(log *zap.Logger) *Player {
	return &Player{log: log}
}

func (p *Player) init() error {
	p.once.Do(func() {
		p.initErr = speaker.Init(SampleRate, SampleRate.N(time.Second/20))
		if p.initErr != nil {
			p.log.Warn("audio unavailable", zap.Error(p.initErr))
		}
	})
	return p.initErr
}

// PlayChime plays the completion chime. It returns at once.
func (p *Player) PlayChime() error {
	return p.Play(Chime(SampleRate))
}

// Play queues s on the speaker, replacing nothing already playing.
func (p *Player) Play(s beep.Streamer) error {
	if err := p.init(); err != nil {
		return err
	}
	tap := NewTap(s, SampleRate.N(time.Second/30))

	p.mu.Lock()
	p.tap = tap
	p.playing = true
	p.mu.Unlock()

	speaker.Play(beep.Seq(tap, beep.Callback(func() {
		p.mu.Lock()
		if p.tap == tap {
			p.playing = false
			tap.Reset()
		}
		p.mu.Unlock()
	})))
	return nil
}

// Level is the current output level, zero when idle.
func (p *Player) Level() float64 {
	p.mu.Lock()
	tap, playing := p.tap, p.playing
	p.mu.Unlock()
	if tap == nil || !playing {
		return 0
	}
	return tap.Level()
}
