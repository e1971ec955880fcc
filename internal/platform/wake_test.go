package platform

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// shiftedClock returns real time plus an adjustable offset, letting tests
// simulate the wall-clock jump a suspend produces.
type shiftedClock struct {
	offsetNanos atomic.Int64
}

func (clock *shiftedClock) Now() time.Time {
	return time.Now().Add(time.Duration(clock.offsetNanos.Load()))
}

func (clock *shiftedClock) Jump(delta time.Duration) {
	clock.offsetNanos.Add(int64(delta))
}

func TestWakeWatcherEmitsAfterClockJump(t *testing.T) {
	clock := &shiftedClock{}
	watcher := NewWakeWatcher(WakeConfig{
		CheckInterval: 10 * time.Millisecond,
		GapThreshold:  20 * time.Millisecond,
		Now:           clock.Now,
	})
	// A non-positive buffer is clamped so the event is not dropped by the
	// non-blocking send.
	events := watcher.Subscribe(0)
	require.Equal(t, 1, cap(events))

	watcher.Start()
	defer watcher.Stop()

	time.Sleep(30 * time.Millisecond)
	clock.Jump(500 * time.Millisecond)

	require.Eventually(t, func() bool {
		select {
		case event := <-events:
			require.GreaterOrEqual(t, event.SleptFor, 400*time.Millisecond)
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestWakeWatcherQuietWithoutJump(t *testing.T) {
	watcher := NewWakeWatcher(WakeConfig{
		CheckInterval: 10 * time.Millisecond,
		GapThreshold:  50 * time.Millisecond,
	})
	events := watcher.Subscribe(4)

	watcher.Start()
	time.Sleep(80 * time.Millisecond)
	watcher.Stop()

	select {
	case event := <-events:
		t.Fatalf("unexpected wake event: %+v", event)
	default:
	}
}

func TestWakeWatcherStartStopIdempotent(t *testing.T) {
	watcher := NewWakeWatcher(WakeConfig{CheckInterval: 10 * time.Millisecond})

	watcher.Start()
	watcher.Start()
	watcher.Stop()
	watcher.Stop()
}

func TestInstanceLock(t *testing.T) {
	first, err := AcquireInstanceLock("togglbar-test-lock")
	require.NoError(t, err)
	defer func() { _ = first.Release() }()

	_, err = AcquireInstanceLock("togglbar-test-lock")
	require.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, first.Release())

	second, err := AcquireInstanceLock("togglbar-test-lock")
	require.NoError(t, err)
	require.NoError(t, second.Release())
}
