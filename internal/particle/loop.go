package particle

import (
	"sync"
	"time"
)

// FrameID identifies a pending frame request.
type FrameID uint64

// FrameFunc receives the scheduler clock.
type FrameFunc func(now time.Duration)

// Scheduler issues frame callbacks, one request at a time per caller.
type Scheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

// Loop drives an Animator from a Scheduler: each callback runs advance and
// render synchronously and then requests the next frame.
type Loop struct {
	mu      sync.Mutex
	sched   Scheduler
	anim    *Animator
	surface Surface
	pending FrameID
	running bool
	frames  int
}

// NewLoop wires an animator to a surface and scheduler.
func NewLoop(sched Scheduler, anim *Animator, surface Surface) *Loop {
	return &Loop{sched: sched, anim: anim, surface: surface}
}

// Start mounts the animator at the surface size and requests the first frame.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	w, h := 0, 0
	if l.surface != nil {
		w, h = l.surface.Size()
	}
	l.anim.Mount(w, h)
	l.running = true
	l.pending = l.sched.RequestFrame(l.tick)
}

func (l *Loop) tick(now time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	l.anim.Frame(now.Seconds(), l.surface)
	l.frames++
	l.pending = l.sched.RequestFrame(l.tick)
}

// Resize forwards a host resize to the animator synchronously.
func (l *Loop) Resize(w, h int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.anim.Resize(w, h)
}

// Stop cancels the pending frame and tears the animator down. No callback
// runs a frame after Stop returns.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	l.running = false
	l.sched.CancelFrame(l.pending)
	l.anim.Teardown()
}

// Frames returns how many frames the loop has run.
func (l *Loop) Frames() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// TickerScheduler fires pending frame requests on a fixed interval from its
// own goroutine. Close must be called to release the goroutine.
type TickerScheduler struct {
	mu      sync.Mutex
	next    FrameID
	pending map[FrameID]FrameFunc
	order   []FrameID
	start   time.Time
	stop    chan struct{}
	done    chan struct{}
}

// NewTickerScheduler starts a scheduler ticking every interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	s := &TickerScheduler{
		pending: make(map[FrameID]FrameFunc),
		start:   time.Now(),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run(interval)
	return s
}

func (s *TickerScheduler) RequestFrame(fn FrameFunc) FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.pending[s.next] = fn
	s.order = append(s.order, s.next)
	return s.next
}

func (s *TickerScheduler) CancelFrame(id FrameID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// Pending returns the number of outstanding requests.
func (s *TickerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *TickerScheduler) run(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.fire()
		}
	}
}

// fire runs the requests queued before this tick. Each is re-checked just
// before it runs so a cancel between snapshot and call still wins.
func (s *TickerScheduler) fire() {
	s.mu.Lock()
	batch := s.order
	s.order = nil
	s.mu.Unlock()

	now := time.Since(s.start)
	for _, id := range batch {
		s.mu.Lock()
		fn, ok := s.pending[id]
		delete(s.pending, id)
		s.mu.Unlock()
		if ok {
			fn(now)
		}
	}
}

// Close stops the ticker goroutine and drops pending requests.
func (s *TickerScheduler) Close() {
	select {
	case <-s.stop:
		return
	default:
		close(s.stop)
	}
	<-s.done
	s.mu.Lock()
	clear(s.pending)
	s.order = nil
	s.mu.Unlock()
}
