// Package coordinator owns the authoritative in-memory snapshot of the
// application: current entry, recent entries, user and projects, rate limit
// and stats. It orchestrates loads and fans commands out to the API client,
// wiring the ticker, the pomodoro scheduler and the stats recomputation
// together.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"togglbar/internal/core/model"
	"togglbar/internal/core/pomodoro"
	"togglbar/internal/core/stats"
	"togglbar/internal/core/ticker"
	"togglbar/internal/format"
	"togglbar/internal/notify"
	"togglbar/internal/toggl"
)

// API is the subset of the Toggl client the coordinator drives.
type API interface {
	GetMe(ctx context.Context) (*model.User, error)
	GetCurrentEntry(ctx context.Context) (*model.TimeEntry, error)
	GetEntries(ctx context.Context, startDate, endDate string) ([]model.TimeEntry, error)
	StopEntry(ctx context.Context, workspaceID, entryID int64) (*model.TimeEntry, error)
	CreateEntry(ctx context.Context, workspaceID int64, projectID *int64, description *string) (*model.TimeEntry, error)
}

// Config contains runtime options for Coordinator.
type Config struct {
	DaysToLoad       int
	DayCheckInterval time.Duration
	Now              func() time.Time
	Logger           *slog.Logger
}

// Snapshot is a copy of the coordinator state for consumers.
type Snapshot struct {
	User          *model.User
	CurrentEntry  *model.TimeEntry
	LatestEntries []model.TimeEntry
	Continuable   []model.TimeEntry
	RateLimit     model.RateLimitInfo
	Stats         model.TimeStats
	Loading       bool
	Loaded        bool
}

// Coordinator is the single writer of its own state; observers receive
// change events and read consistent snapshots.
type Coordinator struct {
	api       API
	menuTimer *ticker.Ticker
	scheduler *pomodoro.Scheduler
	notifier  notify.Notifier
	options   Config
	logger    *slog.Logger

	mu            sync.Mutex
	user          *model.User
	projects      map[int64]model.Project
	currentEntry  *model.TimeEntry
	latestEntries []model.TimeEntry
	continuable   []model.TimeEntry
	rateLimit     model.RateLimitInfo
	stats         model.TimeStats
	loading       bool
	loaded        bool

	events  []chan Event
	stopCh  chan struct{}
	running bool
}

// New creates a Coordinator around the injected collaborators.
func New(api API, menuTimer *ticker.Ticker, scheduler *pomodoro.Scheduler, notifier notify.Notifier, options Config) *Coordinator {
	if options.DaysToLoad <= 0 {
		options.DaysToLoad = 7
	}
	if options.DayCheckInterval <= 0 {
		options.DayCheckInterval = 30 * time.Second
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &Coordinator{
		api:       api,
		menuTimer: menuTimer,
		scheduler: scheduler,
		notifier:  notifier,
		options:   options,
		logger:    options.Logger,
		projects:  make(map[int64]model.Project),
		rateLimit: model.RateLimitInfo{Limit: model.DefaultRateLimit},
	}
}

// Subscribe registers a new observer channel.
func (coord *Coordinator) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	coord.mu.Lock()
	coord.events = append(coord.events, ch)
	coord.mu.Unlock()
	return ch
}

// Start launches the day-boundary watcher.
func (coord *Coordinator) Start() {
	coord.mu.Lock()
	if coord.running {
		coord.mu.Unlock()
		return
	}
	coord.running = true
	coord.stopCh = make(chan struct{})
	stopCh := coord.stopCh
	coord.mu.Unlock()

	go coord.watchDayBoundary(stopCh)
}

// Stop terminates the watcher and closes observer channels.
func (coord *Coordinator) Stop() {
	coord.mu.Lock()
	if !coord.running {
		coord.mu.Unlock()
		return
	}
	close(coord.stopCh)
	coord.running = false
	events := coord.events
	coord.events = nil
	coord.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Snapshot returns a copy of the current state.
func (coord *Coordinator) Snapshot() Snapshot {
	coord.mu.Lock()
	defer coord.mu.Unlock()
	return Snapshot{
		User:          coord.user,
		CurrentEntry:  coord.currentEntry,
		LatestEntries: append([]model.TimeEntry(nil), coord.latestEntries...),
		Continuable:   append([]model.TimeEntry(nil), coord.continuable...),
		RateLimit:     coord.rateLimit,
		Stats:         coord.stats,
		Loading:       coord.loading,
		Loaded:        coord.loaded,
	}
}

// ProjectName resolves a project id to its display name, or "" when the
// project is unknown.
func (coord *Coordinator) ProjectName(projectID *int64) string {
	if projectID == nil {
		return ""
	}
	coord.mu.Lock()
	defer coord.mu.Unlock()
	if project, ok := coord.projects[*projectID]; ok {
		return project.Name
	}
	return ""
}

// ReplaceAPI swaps the API client and clears all server-derived state, so
// the next LoadIfNeeded performs a fresh load with the new credentials.
func (coord *Coordinator) ReplaceAPI(api API) {
	coord.mu.Lock()
	coord.api = api
	coord.user = nil
	coord.projects = make(map[int64]model.Project)
	coord.latestEntries = nil
	coord.continuable = nil
	coord.stats = model.TimeStats{}
	coord.rateLimit = model.RateLimitInfo{Limit: model.DefaultRateLimit}
	coord.loading = false
	coord.loaded = false
	coord.mu.Unlock()

	coord.setCurrentEntry(nil)
	coord.emit(EventStateChange, "")
}

// LoadIfNeeded performs the one-shot initial load: user and projects, the
// current entry, then the recent-entries window. State updates land after
// each step so partial data is usable even if a later step fails; a failed
// step is surfaced without aborting the ones after it.
func (coord *Coordinator) LoadIfNeeded(ctx context.Context) {
	coord.mu.Lock()
	if coord.loaded || coord.loading {
		coord.mu.Unlock()
		return
	}
	coord.loading = true
	coord.mu.Unlock()
	coord.emit(EventStateChange, "")

	coord.loadUser(ctx)
	coord.loadCurrentEntry(ctx)
	coord.loadLatestEntries(ctx)

	coord.mu.Lock()
	coord.loading = false
	coord.loaded = true
	coord.mu.Unlock()
	coord.emit(EventStateChange, "")
}

// Reload discards the loaded flag and runs the full load again. A reload
// already in flight is left alone.
func (coord *Coordinator) Reload(ctx context.Context) {
	coord.mu.Lock()
	if coord.loading {
		coord.mu.Unlock()
		return
	}
	coord.loaded = false
	coord.mu.Unlock()

	coord.LoadIfNeeded(ctx)
}

// ContinueEntry creates a new running entry copying workspace, project and
// description from source, and adopts it as the current entry.
func (coord *Coordinator) ContinueEntry(ctx context.Context, source model.TimeEntry) {
	entry, err := coord.api.CreateEntry(ctx, source.WorkspaceID, source.ProjectID, source.Description)
	if err != nil {
		coord.handleError(err, "failed to continue the time entry")
		return
	}
	if entry == nil {
		return
	}

	coord.setCurrentEntry(entry)
	coord.emit(EventStateChange, "")
}

// StopCurrentEntry stops the running entry. The local state transition is
// applied before the server confirms so the stop feels immediate; a server
// failure is surfaced without reviving the entry.
func (coord *Coordinator) StopCurrentEntry(ctx context.Context) {
	coord.mu.Lock()
	entry := coord.currentEntry
	coord.mu.Unlock()
	if entry == nil {
		return
	}

	coord.setCurrentEntry(nil)
	coord.emit(EventStateChange, "")

	stopped, err := coord.api.StopEntry(ctx, entry.WorkspaceID, entry.ID)
	if err != nil {
		coord.handleError(err, "failed to stop the time entry")
		return
	}
	if stopped == nil {
		return
	}

	coord.mu.Lock()
	coord.latestEntries = append([]model.TimeEntry{*stopped}, coord.latestEntries...)
	coord.continuable = dedupEntries(coord.latestEntries)
	coord.mu.Unlock()
	coord.emit(EventStateChange, "")
	coord.RecomputeStats()
}

// RecomputeStats replaces the today/week totals from the in-memory window.
func (coord *Coordinator) RecomputeStats() {
	coord.mu.Lock()
	entries := coord.latestEntries
	coord.stats = stats.Compute(entries, coord.options.Now())
	coord.mu.Unlock()
	coord.emit(EventStatsChange, "")
}

// HandleWake re-derives time-based state after a system wake: totals may
// straddle a day boundary and the pomodoro deadline may have passed while
// suspended.
func (coord *Coordinator) HandleWake() {
	coord.RecomputeStats()
	if coord.scheduler != nil {
		coord.scheduler.Recompute()
	}
}

// HandleForeground mirrors HandleWake for app activation.
func (coord *Coordinator) HandleForeground() {
	coord.HandleWake()
}

// SetRateLimit adopts a fresh rate-limit snapshot from the API client.
func (coord *Coordinator) SetRateLimit(info model.RateLimitInfo) {
	coord.mu.Lock()
	coord.rateLimit = info
	coord.mu.Unlock()
	coord.emit(EventRateLimit, "")
}

// HandleAction routes a notification action. A stale "stop" action naming
// an entry other than the tracked current one is ignored.
func (coord *Coordinator) HandleAction(ctx context.Context, action notify.Action) {
	if action.Type != notify.ActionStopCurrentEntry {
		return
	}
	coord.mu.Lock()
	current := coord.currentEntry
	coord.mu.Unlock()
	if current == nil || current.ID != action.EntryID {
		return
	}
	coord.StopCurrentEntry(ctx)
}

func (coord *Coordinator) loadUser(ctx context.Context) {
	user, err := coord.api.GetMe(ctx)
	if err != nil {
		coord.handleError(err, "failed to load the user profile")
		return
	}

	coord.mu.Lock()
	coord.user = user
	if user != nil {
		for _, project := range user.Projects {
			coord.projects[project.ID] = project
		}
	}
	coord.mu.Unlock()
	coord.emit(EventStateChange, "")
}

func (coord *Coordinator) loadCurrentEntry(ctx context.Context) {
	entry, err := coord.api.GetCurrentEntry(ctx)
	if err != nil {
		coord.handleError(err, "failed to load the current time entry")
		return
	}

	coord.setCurrentEntry(entry)
	coord.emit(EventStateChange, "")
}

func (coord *Coordinator) loadLatestEntries(ctx context.Context) {
	startDate, endDate := format.DateRange(coord.options.Now(), coord.options.DaysToLoad)
	entries, err := coord.api.GetEntries(ctx, startDate, endDate)
	if err != nil {
		coord.handleError(err, "failed to load recent time entries")
		return
	}

	coord.mu.Lock()
	coord.latestEntries = entries
	coord.continuable = dedupEntries(entries)
	coord.mu.Unlock()
	coord.emit(EventStateChange, "")
	coord.RecomputeStats()
}

// setCurrentEntry replaces the tracked current entry and synchronizes the
// menu timer and the pomodoro schedule.
func (coord *Coordinator) setCurrentEntry(entry *model.TimeEntry) {
	coord.mu.Lock()
	coord.currentEntry = entry
	coord.mu.Unlock()

	if coord.menuTimer != nil {
		if entry != nil {
			if start, ok := entry.StartTime(); ok {
				coord.menuTimer.Start(start)
			} else {
				coord.menuTimer.Stop()
			}
		} else {
			coord.menuTimer.Stop()
		}
	}
	if coord.scheduler != nil {
		coord.scheduler.SetEntry(entry)
	}
}

// handleError surfaces a failure as a notification plus a structured log
// entry, keeping diagnostic detail out of the user-facing text.
// Cancellation is not a failure and surfaces nowhere.
func (coord *Coordinator) handleError(err error, context string) {
	if toggl.IsCancelled(err) {
		return
	}

	if coord.notifier != nil {
		coord.notifier.Show(notify.Notification{
			Title: "Toggl error",
			Body:  context + ": " + err.Error(),
		})
	}

	attrs := []any{"context", context, "err", err}
	var apiErr *toggl.Error
	if errors.As(err, &apiErr) {
		if detail := apiErr.Detail(); detail != "" {
			attrs = append(attrs, "detail", detail)
		}
	}
	coord.logger.Error("operation failed", attrs...)

	coord.emit(EventError, context+": "+err.Error())
}

func (coord *Coordinator) watchDayBoundary(stopCh chan struct{}) {
	clock := time.NewTicker(coord.options.DayCheckInterval)
	defer clock.Stop()

	lastDay := dayKey(coord.options.Now())
	for {
		select {
		case <-stopCh:
			return
		case <-clock.C:
			today := dayKey(coord.options.Now())
			if today != lastDay {
				lastDay = today
				coord.RecomputeStats()
			}
		}
	}
}

func dayKey(at time.Time) string {
	return at.Format("2006-01-02")
}

// emit sends under the lock: the sends are non-blocking, and Stop must not
// be able to close an observer channel with an event still in flight. Stop
// nils the observer list under the same lock before closing the channels.
func (coord *Coordinator) emit(eventType EventType, message string) {
	event := Event{Type: eventType, Message: message, At: coord.options.Now()}

	coord.mu.Lock()
	defer coord.mu.Unlock()
	for _, ch := range coord.events {
		select {
		case ch <- event:
		default:
		}
	}
}
