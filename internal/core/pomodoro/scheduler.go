// Package pomodoro fires a one-shot break reminder per running time entry
// once the configured work interval has elapsed.
package pomodoro

import (
	"fmt"
	"sync"
	"time"

	"togglbar/internal/core/model"
	"togglbar/internal/notify"
)

// Config contains runtime options for Scheduler.
type Config struct {
	Now func() time.Time
}

// entryKey identifies one running instance of a time entry. Continuing an
// entry later reuses its attributes but starts a new instance, so the key
// includes the start timestamp. The start is kept as an instant (unix
// nanoseconds) rather than a time.Time: parsed times carry a location
// pointer, and two parses of the same string do not reliably compare equal
// with ==.
type entryKey struct {
	id        int64
	startUnix int64
}

// Scheduler computes and arms the break reminder for the current entry.
// Every input change cancels the pending timer and re-derives the schedule;
// the dedup key guarantees at most one notification per running instance no
// matter how often the schedule is recomputed.
type Scheduler struct {
	mu       sync.Mutex
	now      func() time.Time
	notifier notify.Notifier

	timer       *time.Timer
	lastEntry   *model.TimeEntry
	lastMinutes int
	notified    *entryKey
}

// New creates a Scheduler delivering reminders through notifier.
func New(notifier notify.Notifier, config Config) *Scheduler {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Scheduler{
		now:      config.Now,
		notifier: notifier,
	}
}

// SetEntry reschedules for a new current entry. A nil entry means nothing is
// running.
func (scheduler *Scheduler) SetEntry(entry *model.TimeEntry) {
	scheduler.mu.Lock()
	scheduler.lastEntry = entry
	scheduler.mu.Unlock()
	scheduler.Recompute()
}

// SetIntervalMinutes reschedules for a new pomodoro size. Zero disables
// reminders.
func (scheduler *Scheduler) SetIntervalMinutes(minutes int) {
	scheduler.mu.Lock()
	scheduler.lastMinutes = minutes
	scheduler.mu.Unlock()
	scheduler.Recompute()
}

// Recompute re-derives the schedule from the last known (entry, interval)
// pair. Called on system wake and app foreground, which covers a process
// suspended through its deadline.
func (scheduler *Scheduler) Recompute() {
	scheduler.mu.Lock()

	scheduler.cancelTimerLocked()

	entry := scheduler.lastEntry
	minutes := scheduler.lastMinutes
	if entry == nil || minutes <= 0 {
		scheduler.mu.Unlock()
		return
	}
	start, ok := entry.StartTime()
	if !ok {
		scheduler.mu.Unlock()
		return
	}

	key := entryKey{id: entry.ID, startUnix: start.UnixNano()}
	if scheduler.notified != nil && *scheduler.notified != key {
		scheduler.notified = nil
	}

	deadline := start.Add(time.Duration(minutes) * time.Minute)
	remaining := deadline.Sub(scheduler.now())
	if remaining <= 0 {
		scheduler.mu.Unlock()
		scheduler.fire(key, minutes)
		return
	}

	scheduler.timer = time.AfterFunc(remaining, func() {
		scheduler.fire(key, minutes)
	})
	scheduler.mu.Unlock()
}

// Stop cancels any pending reminder.
func (scheduler *Scheduler) Stop() {
	scheduler.mu.Lock()
	scheduler.cancelTimerLocked()
	scheduler.mu.Unlock()
}

func (scheduler *Scheduler) cancelTimerLocked() {
	if scheduler.timer != nil {
		scheduler.timer.Stop()
		scheduler.timer = nil
	}
}

// fire shows the break notification unless this running instance was already
// notified.
func (scheduler *Scheduler) fire(key entryKey, minutes int) {
	scheduler.mu.Lock()
	if scheduler.notified != nil && *scheduler.notified == key {
		scheduler.mu.Unlock()
		return
	}
	scheduler.notified = &key
	scheduler.mu.Unlock()

	scheduler.notifier.Show(notify.Notification{
		Title:    "Pomodoro finished",
		Body:     fmt.Sprintf("%d minutes have passed, time for a break!", minutes),
		Category: notify.CategoryPomodoro,
		EntryID:  key.id,
	})
}
