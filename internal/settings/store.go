package settings

import "sync"

// Store owns the current Settings value and fans out per-key change
// streams. Each subscription receives the current value immediately, then
// every change; unchanged values are not re-emitted.
type Store struct {
	mu      sync.Mutex
	current Settings
	save    func(Settings) error

	apiKeySubs   []chan string
	dailySubs    []chan int
	weeklySubs   []chan int
	pomodoroSubs []chan int
	launchSubs   []chan bool
}

// NewStore creates a Store seeded with current. save is invoked on every
// Update to persist the new value; it may be nil.
func NewStore(current Settings, save func(Settings) error) *Store {
	return &Store{
		current: current,
		save:    save,
	}
}

// Current returns the current settings snapshot.
func (store *Store) Current() Settings {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.current
}

// Update persists the new settings and emits changes to per-key
// subscribers. Keys whose value did not change emit nothing.
func (store *Store) Update(updated Settings) error {
	store.mu.Lock()
	previous := store.current
	store.current = updated

	var emits []func()
	if updated.APIKey != previous.APIKey {
		emits = append(emits, emitAll(store.apiKeySubs, updated.APIKey))
	}
	if updated.TargetDailyHours != previous.TargetDailyHours {
		emits = append(emits, emitAll(store.dailySubs, updated.TargetDailyHours))
	}
	if updated.TargetWeeklyHours != previous.TargetWeeklyHours {
		emits = append(emits, emitAll(store.weeklySubs, updated.TargetWeeklyHours))
	}
	if updated.PomodoroSizeMinutes != previous.PomodoroSizeMinutes {
		emits = append(emits, emitAll(store.pomodoroSubs, updated.PomodoroSizeMinutes))
	}
	if updated.LaunchAtLogin != previous.LaunchAtLogin {
		emits = append(emits, emitAll(store.launchSubs, updated.LaunchAtLogin))
	}
	save := store.save
	store.mu.Unlock()

	for _, emit := range emits {
		emit()
	}

	if save != nil {
		return save(updated)
	}
	return nil
}

// SubscribeAPIKey streams the API key: current value first, then changes.
func (store *Store) SubscribeAPIKey(buffer int) <-chan string {
	store.mu.Lock()
	defer store.mu.Unlock()
	ch := newSub(buffer, store.current.APIKey)
	store.apiKeySubs = append(store.apiKeySubs, ch)
	return ch
}

// SubscribeTargetDailyHours streams the daily target hours.
func (store *Store) SubscribeTargetDailyHours(buffer int) <-chan int {
	store.mu.Lock()
	defer store.mu.Unlock()
	ch := newSub(buffer, store.current.TargetDailyHours)
	store.dailySubs = append(store.dailySubs, ch)
	return ch
}

// SubscribeTargetWeeklyHours streams the weekly target hours.
func (store *Store) SubscribeTargetWeeklyHours(buffer int) <-chan int {
	store.mu.Lock()
	defer store.mu.Unlock()
	ch := newSub(buffer, store.current.TargetWeeklyHours)
	store.weeklySubs = append(store.weeklySubs, ch)
	return ch
}

// SubscribePomodoroSize streams the pomodoro size in minutes.
func (store *Store) SubscribePomodoroSize(buffer int) <-chan int {
	store.mu.Lock()
	defer store.mu.Unlock()
	ch := newSub(buffer, store.current.PomodoroSizeMinutes)
	store.pomodoroSubs = append(store.pomodoroSubs, ch)
	return ch
}

// SubscribeLaunchAtLogin streams the launch-at-login flag.
func (store *Store) SubscribeLaunchAtLogin(buffer int) <-chan bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	ch := newSub(buffer, store.current.LaunchAtLogin)
	store.launchSubs = append(store.launchSubs, ch)
	return ch
}

// newSub builds a subscription channel pre-loaded with the current value.
func newSub[T any](buffer int, current T) chan T {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan T, buffer)
	ch <- current
	return ch
}

func emitAll[T any](subs []chan T, value T) func() {
	targets := append([]chan T(nil), subs...)
	return func() {
		for _, ch := range targets {
			select {
			case ch <- value:
			default:
			}
		}
	}
}
