package ticker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock for driving elapsed-time reads.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	clock.now = clock.now.Add(d)
	clock.mu.Unlock()
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 11, 12, 0, 0, 0, time.UTC)}
}

func TestElapsedSeconds(t *testing.T) {
	clock := newFakeClock()
	tk := New(Config{TickInterval: time.Hour, Now: clock.Now})
	defer tk.Close()

	assert.Equal(t, int64(0), tk.ElapsedSeconds())
	assert.Equal(t, "", tk.ElapsedText())

	tk.Start(clock.Now())
	assert.Equal(t, int64(0), tk.ElapsedSeconds())
	assert.Equal(t, "00:00:00", tk.ElapsedText())

	clock.Advance(65 * time.Second)
	assert.Equal(t, int64(65), tk.ElapsedSeconds())
	assert.Equal(t, "00:01:05", tk.ElapsedText())

	tk.Stop()
	assert.Equal(t, int64(0), tk.ElapsedSeconds())
	assert.Equal(t, "", tk.ElapsedText())
}

func TestStartInFutureClampsToZero(t *testing.T) {
	clock := newFakeClock()
	tk := New(Config{TickInterval: time.Hour, Now: clock.Now})
	defer tk.Close()

	tk.Start(clock.Now().Add(30 * time.Second))
	assert.Equal(t, int64(0), tk.ElapsedSeconds())
}

func TestReArmUpdatesStartWithoutRestart(t *testing.T) {
	clock := newFakeClock()
	tk := New(Config{TickInterval: time.Hour, Now: clock.Now})
	defer tk.Close()

	tk.Start(clock.Now().Add(-time.Hour))
	assert.Equal(t, int64(3600), tk.ElapsedSeconds())

	// Re-arm while running: remembered start moves, state stays running.
	tk.Start(clock.Now())
	assert.True(t, tk.Running())
	assert.Equal(t, int64(0), tk.ElapsedSeconds())
}

func TestPeriodicEmission(t *testing.T) {
	clock := newFakeClock()
	tk := New(Config{TickInterval: 5 * time.Millisecond, Now: clock.Now})
	defer tk.Close()

	ticks := tk.Subscribe(16)
	tk.Start(clock.Now())

	// The immediate tick on Start.
	select {
	case tick := <-ticks:
		assert.Equal(t, int64(0), tick.ElapsedSeconds)
		assert.Equal(t, "00:00:00", tick.Text)
	case <-time.After(time.Second):
		t.Fatal("expected an immediate tick")
	}

	clock.Advance(65 * time.Second)
	require.Eventually(t, func() bool {
		select {
		case tick := <-ticks:
			return tick.ElapsedSeconds == 65 && tick.Text == "00:01:05"
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestStopHaltsEmission(t *testing.T) {
	clock := newFakeClock()
	tk := New(Config{TickInterval: time.Millisecond, Now: clock.Now})
	defer tk.Close()

	ticks := tk.Subscribe(64)
	tk.Start(clock.Now())
	tk.Stop()

	// Drain whatever raced in before the stop, then verify silence.
	time.Sleep(20 * time.Millisecond)
	for len(ticks) > 0 {
		<-ticks
	}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, len(ticks))
}

func TestCloseClosesSubscribers(t *testing.T) {
	tk := New(Config{TickInterval: time.Millisecond})
	ticks := tk.Subscribe(1)
	tk.Start(time.Now())
	tk.Close()

	require.Eventually(t, func() bool {
		select {
		case _, open := <-ticks:
			return !open
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	// Start after Close is a no-op.
	tk.Start(time.Now())
	assert.False(t, tk.Running())
}

func TestStopIsIdempotent(t *testing.T) {
	tk := New(Config{TickInterval: time.Hour})
	defer tk.Close()

	tk.Stop()
	tk.Start(time.Now())
	tk.Stop()
	tk.Stop()
	assert.False(t, tk.Running())
}

func TestEmitAfterCloseIsNoOp(t *testing.T) {
	tk := New(Config{})
	tk.Subscribe(1)
	tk.Close()

	// A tick still in flight at shutdown must not send on the closed
	// subscriber channels.
	require.NotPanics(t, func() {
		tk.emit(Tick{ElapsedSeconds: 1, Text: "00:00:01"})
	})
}
