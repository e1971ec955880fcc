package platform

import (
	"sync"
	"time"
)

const (
	defaultCheckInterval = 15 * time.Second
	defaultGapThreshold  = 30 * time.Second
)

// WakeEvent is emitted when the process resumes after the machine was
// suspended (or the process was otherwise frozen) for longer than the
// configured threshold.
type WakeEvent struct {
	SleptFor time.Duration
	At       time.Time
}

// WakeConfig configures the wake watcher.
type WakeConfig struct {
	// CheckInterval is how often the watcher samples the wall clock.
	CheckInterval time.Duration
	// GapThreshold is the extra gap beyond CheckInterval that counts as
	// a suspend rather than ordinary scheduling jitter.
	GapThreshold time.Duration
	// Now overrides the clock, used by tests.
	Now func() time.Time
}

// WakeWatcher detects system wake-ups by watching for gaps in wall-clock
// time between samples. Timers do not fire while the machine sleeps, so a
// sample arriving far later than scheduled means the machine was suspended
// in between.
type WakeWatcher struct {
	mu            sync.Mutex
	checkInterval time.Duration
	gapThreshold  time.Duration
	now           func() time.Time
	subscribers   []chan WakeEvent
	stopCh        chan struct{}
	running       bool
}

// NewWakeWatcher creates a stopped watcher.
func NewWakeWatcher(config WakeConfig) *WakeWatcher {
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaultCheckInterval
	}
	if config.GapThreshold <= 0 {
		config.GapThreshold = defaultGapThreshold
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &WakeWatcher{
		checkInterval: config.CheckInterval,
		gapThreshold:  config.GapThreshold,
		now:           config.Now,
	}
}

// Subscribe registers a listener for wake events.
func (watcher *WakeWatcher) Subscribe(buffer int) <-chan WakeEvent {
	if buffer <= 0 {
		buffer = 1
	}
	watcher.mu.Lock()
	defer watcher.mu.Unlock()

	channel := make(chan WakeEvent, buffer)
	watcher.subscribers = append(watcher.subscribers, channel)
	return channel
}

// Start launches the sampling loop. Calling Start on a running watcher is
// a no-op.
func (watcher *WakeWatcher) Start() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()

	if watcher.running {
		return
	}
	watcher.running = true
	watcher.stopCh = make(chan struct{})
	go watcher.run(watcher.stopCh)
}

// Stop halts the sampling loop.
func (watcher *WakeWatcher) Stop() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()

	if !watcher.running {
		return
	}
	watcher.running = false
	close(watcher.stopCh)
}

func (watcher *WakeWatcher) run(stopCh chan struct{}) {
	ticker := time.NewTicker(watcher.checkInterval)
	defer ticker.Stop()

	lastSample := watcher.now()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			sample := watcher.now()
			gap := sample.Sub(lastSample)
			lastSample = sample
			if gap > watcher.checkInterval+watcher.gapThreshold {
				watcher.emit(WakeEvent{SleptFor: gap - watcher.checkInterval, At: sample})
			}
		}
	}
}

func (watcher *WakeWatcher) emit(event WakeEvent) {
	watcher.mu.Lock()
	subscribers := make([]chan WakeEvent, len(watcher.subscribers))
	copy(subscribers, watcher.subscribers)
	watcher.mu.Unlock()

	for _, channel := range subscribers {
		select {
		case channel <- event:
		default:
		}
	}
}
