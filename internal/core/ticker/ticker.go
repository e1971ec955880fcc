// Package ticker drives the live elapsed-time display for a running time
// entry with a once-per-second clock.
package ticker

import (
	"sync"
	"time"

	"togglbar/internal/format"
)

// Config contains runtime options for Ticker.
type Config struct {
	TickInterval time.Duration
	Now          func() time.Time
}

// Tick is one periodic elapsed-time emission.
type Tick struct {
	ElapsedSeconds int64
	Text           string
	At             time.Time
}

// Ticker is a two-state machine: idle, or running from a start timestamp.
// Re-arming while running reuses the existing periodic emission instead of
// stacking a second one.
type Ticker struct {
	mu      sync.Mutex
	options Config
	startAt time.Time
	running bool
	closed  bool
	stopCh  chan struct{}
	subs    []chan Tick
}

// New creates an idle Ticker.
func New(options Config) *Ticker {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &Ticker{options: options}
}

// Subscribe registers a new observer channel for ticks.
func (ticker *Ticker) Subscribe(buffer int) <-chan Tick {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Tick, buffer)
	ticker.mu.Lock()
	ticker.subs = append(ticker.subs, ch)
	ticker.mu.Unlock()
	return ch
}

// Start transitions to running from the given start timestamp and begins
// per-second emission. Calling Start while already running only updates the
// remembered start timestamp and emits a fresh tick immediately.
func (ticker *Ticker) Start(at time.Time) {
	ticker.mu.Lock()
	if ticker.closed {
		ticker.mu.Unlock()
		return
	}
	ticker.startAt = at
	alreadyRunning := ticker.running
	if !alreadyRunning {
		ticker.running = true
		ticker.stopCh = make(chan struct{})
		go ticker.run(ticker.stopCh)
	}
	tick := ticker.currentTickLocked()
	ticker.mu.Unlock()

	ticker.emit(tick)
}

// Stop transitions to idle and halts emission.
func (ticker *Ticker) Stop() {
	ticker.mu.Lock()
	if !ticker.running {
		ticker.mu.Unlock()
		return
	}
	close(ticker.stopCh)
	ticker.stopCh = nil
	ticker.running = false
	ticker.startAt = time.Time{}
	ticker.mu.Unlock()
}

// Close stops the ticker and closes all observer channels. The ticker must
// not be reused afterwards.
func (ticker *Ticker) Close() {
	ticker.Stop()

	ticker.mu.Lock()
	if ticker.closed {
		ticker.mu.Unlock()
		return
	}
	ticker.closed = true
	subs := ticker.subs
	ticker.subs = nil
	ticker.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
}

// Running reports whether the ticker is in the running state.
func (ticker *Ticker) Running() bool {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	return ticker.running
}

// ElapsedSeconds returns the seconds elapsed since the start timestamp, or 0
// when idle.
func (ticker *Ticker) ElapsedSeconds() int64 {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	return ticker.elapsedSecondsLocked()
}

// ElapsedText returns the elapsed time as "HH:MM:SS", or "" when idle.
func (ticker *Ticker) ElapsedText() string {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	if !ticker.running {
		return ""
	}
	return format.ElapsedTime(ticker.elapsedSecondsLocked())
}

func (ticker *Ticker) run(stopCh chan struct{}) {
	clock := time.NewTicker(ticker.options.TickInterval)
	defer clock.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-clock.C:
			ticker.mu.Lock()
			if !ticker.running {
				ticker.mu.Unlock()
				return
			}
			tick := ticker.currentTickLocked()
			ticker.mu.Unlock()
			ticker.emit(tick)
		}
	}
}

func (ticker *Ticker) elapsedSecondsLocked() int64 {
	if !ticker.running {
		return 0
	}
	elapsed := int64(ticker.options.Now().Sub(ticker.startAt).Seconds())
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func (ticker *Ticker) currentTickLocked() Tick {
	elapsed := ticker.elapsedSecondsLocked()
	return Tick{
		ElapsedSeconds: elapsed,
		Text:           format.ElapsedTime(elapsed),
		At:             ticker.options.Now(),
	}
}

// emit sends under the lock: the sends are non-blocking, and Close must not
// be able to close a subscriber channel with a tick still in flight.
func (ticker *Ticker) emit(tick Tick) {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	if ticker.closed {
		return
	}
	for _, ch := range ticker.subs {
		select {
		case ch <- tick:
		default:
		}
	}
}
