// Package upload simulates the long-running processing job started from the
// upload view.
package upload

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotJSON = errors.New("upload: please select a valid JSON file")
	ErrNoFile  = errors.New("upload: please select a file to upload")
	ErrBusy    = errors.New("upload: processing already running")
)

const (
	DefaultDuration = 30 * time.Minute
	DefaultTick     = time.Second
)

type State int

const (
	Idle State = iota
	Selected
	Processing
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case Processing:
		return "processing"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Status is a snapshot for drawing.
type Status struct {
	State    State
	File     string
	Progress int // percent, 0..100
	Elapsed  time.Duration
	Err      error
}

// Simulator steps a fake job from 0 to 100 percent. It is driven either by
// Advance from a frame loop or by Run.
type Simulator struct {
	mu         sync.Mutex
	log        *zap.Logger
	duration   time.Duration
	tick       time.Duration
	state      State
	file       string
	err        error
	step       int
	progress   int
	elapsed    time.Duration
	acc        time.Duration
	onComplete func(file string)
}

// NewSimulator returns an idle simulator. Non-positive durations fall back
// to the defaults.
func NewSimulator(duration, tick time.Duration, log *zap.Logger) *Simulator {
	if tick <= 0 {
		tick = DefaultTick
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Simulator{log: log, duration: max(duration, tick), tick: tick}
}

// OnComplete sets the callback fired once when a run reaches 100 percent.
// It runs without the simulator lock held.
func (s *Simulator) OnComplete(fn func(file string)) {
	s.mu.Lock()
	s.onComplete = fn
	s.mu.Unlock()
}

// Select picks the file to process. Only .json files are accepted; anything
// else clears the selection.
func (s *Simulator) Select(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Processing {
		return ErrBusy
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		s.file = ""
		s.state = Failed
		s.err = ErrNotJSON
		s.log.Debug("rejected upload file", zap.String("path", path))
		return ErrNotJSON
	}
	s.file = path
	s.state = Selected
	s.err = nil
	s.progress = 0
	s.log.Info("upload file selected", zap.String("path", path))
	return nil
}

// Start begins processing the selected file.
func (s *Simulator) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.state == Processing:
		return ErrBusy
	case s.file == "":
		s.state = Failed
		s.err = ErrNoFile
		return ErrNoFile
	}
	s.state = Processing
	s.err = nil
	s.step = 0
	s.progress = 0
	s.elapsed = 0
	s.acc = 0
	s.log.Info("processing started", zap.String("path", s.file), zap.Duration("duration", s.duration))
	return nil
}

// Cancel stops a running job and keeps the file selected.
func (s *Simulator) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Processing {
		return
	}
	s.state = Selected
	s.progress = 0
	s.log.Info("processing canceled", zap.String("path", s.file))
}

// Advance moves the job forward by dt. Each whole tick is one step.
func (s *Simulator) Advance(dt time.Duration) {
	s.mu.Lock()
	if s.state != Processing || dt <= 0 {
		s.mu.Unlock()
		return
	}
	s.elapsed += dt
	s.acc += dt

	total := float64(s.duration / s.tick)
	done := false
	for s.acc >= s.tick {
		s.acc -= s.tick
		s.step++
		s.progress = min(int(math.Round(float64(s.step)/total*100)), 100)
		if s.progress >= 100 {
			done = true
			break
		}
	}

	var fn func(string)
	var file string
	if done {
		file = s.file
		s.state = Complete
		s.file = ""
		s.acc = 0
		fn = s.onComplete
		s.log.Info("processing complete", zap.String("path", file), zap.Duration("elapsed", s.elapsed))
	}
	s.mu.Unlock()

	if fn != nil {
		fn(file)
	}
}

// Run starts the job and ticks it in real time until it completes or ctx
// is canceled.
func (s *Simulator) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	t := time.NewTicker(s.tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Cancel()
			return ctx.Err()
		case <-t.C:
			s.Advance(s.tick)
			if s.Status().State == Complete {
				return nil
			}
		}
	}
}

func (s *Simulator) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{State: s.state, File: s.file, Progress: s.progress, Elapsed: s.elapsed, Err: s.err}
}

// Steps returns the number of ticks a full run takes.
func (s *Simulator) Steps() int {
	return int(s.duration / s.tick)
}

// FormatElapsed renders d as HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
