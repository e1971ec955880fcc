package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"togglbar/internal/core/coordinator"
	"togglbar/internal/core/model"
	"togglbar/internal/core/pomodoro"
	"togglbar/internal/core/ticker"
	"togglbar/internal/format"
	"togglbar/internal/notify"
	"togglbar/internal/platform"
	"togglbar/internal/settings"
	"togglbar/internal/storage"
	"togglbar/internal/toggl"
	"togglbar/internal/ui/preferences"
	"togglbar/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const appName = "TogglBar"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	lock, err := platform.AcquireInstanceLock(appName)
	if err != nil {
		logger.Error("startup aborted", "err", err)
		return
	}
	defer func() {
		_ = lock.Release()
	}()

	fyneApp := app.NewWithID("com.togglbar.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error("system tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("TogglBar is running in the menu bar."))
	trayWindow.SetCloseIntercept(trayWindow.Hide)
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	stored, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("failed to load settings, using defaults", "err", err)
	}
	store := settings.NewStore(stored, func(updated settings.Settings) error {
		return storage.SaveSettings(appName, updated)
	})

	notifier := notify.NewFyneNotifier(fyneApp)
	hub := notify.NewHub()

	menuTimer := ticker.New(ticker.Config{})
	scheduler := pomodoro.New(notifier, pomodoro.Config{})

	client := toggl.New(stored.APIKey, toggl.Config{Logger: logger})
	coord := coordinator.New(client, menuTimer, scheduler, notifier, coordinator.Config{Logger: logger})

	forwardRateLimit := func(from *toggl.Client) {
		go func() {
			for info := range from.SubscribeRateLimit(4) {
				coord.SetRateLimit(info)
			}
		}()
	}
	forwardRateLimit(client)

	var trayManager *tray.Manager
	refreshTray := func() {
		trayManager.Update(buildView(coord, menuTimer, store.Current()))
	}

	prefsWindow := preferences.New(fyneApp, store.Current(), func(updated settings.Settings) {
		if err := store.Update(updated); err != nil {
			logger.Warn("failed to save settings", "err", err)
		}
		refreshTray()
	})

	wakeWatcher := platform.NewWakeWatcher(platform.WakeConfig{})

	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnStop: func() {
			if current := coord.Snapshot().CurrentEntry; current != nil {
				go hub.Dispatch(notify.Action{Type: notify.ActionStopCurrentEntry, EntryID: current.ID})
			}
		},
		OnContinue: func(entry model.TimeEntry) {
			go coord.ContinueEntry(context.Background(), entry)
		},
		OnRefresh: func() {
			go coord.Reload(context.Background())
		},
		OnOpenLink: func(link string) {
			if parsed, err := url.Parse(link); err == nil {
				_ = fyneApp.OpenURL(parsed)
			}
		},
		OnSettings: func() {
			prefsWindow.UpdateSettings(store.Current())
			prefsWindow.Show()
		},
		OnQuit: func() {
			coord.Stop()
			scheduler.Stop()
			menuTimer.Close()
			wakeWatcher.Stop()
			fyneApp.Quit()
		},
	})

	go func() {
		for minutes := range store.SubscribePomodoroSize(2) {
			scheduler.SetIntervalMinutes(minutes)
		}
	}()

	go func() {
		first := true
		active := client
		for apiKey := range store.SubscribeAPIKey(2) {
			if first {
				first = false
				continue
			}
			replacement := toggl.New(apiKey, toggl.Config{Logger: logger})
			forwardRateLimit(replacement)
			active.Close()
			active = replacement
			coord.ReplaceAPI(replacement)
			if apiKey != "" {
				coord.LoadIfNeeded(context.Background())
			}
		}
	}()

	if autostart, err := platform.NewAutostart(appName); err != nil {
		logger.Warn("autostart unavailable", "err", err)
	} else {
		go func() {
			first := true
			for enabled := range store.SubscribeLaunchAtLogin(2) {
				if first {
					first = false
					if !enabled {
						continue
					}
				}
				var applyErr error
				if enabled {
					applyErr = autostart.Enable()
				} else {
					applyErr = autostart.Disable()
				}
				if applyErr != nil {
					logger.Warn("failed to update autostart", "err", applyErr)
				}
			}
		}()
	}

	events := coord.Subscribe(16)
	go func() {
		for range events {
			fyne.Do(refreshTray)
		}
	}()

	ticks := menuTimer.Subscribe(4)
	go func() {
		for range ticks {
			fyne.Do(refreshTray)
		}
	}()

	wakes := wakeWatcher.Subscribe(2)
	go func() {
		for wake := range wakes {
			logger.Info("system wake detected", "slept_for", wake.SleptFor)
			coord.HandleWake()
		}
	}()

	actions := hub.Subscribe(2)
	go func() {
		for action := range actions {
			coord.HandleAction(context.Background(), action)
		}
	}()

	coord.Start()
	wakeWatcher.Start()

	if stored.APIKey != "" {
		go coord.LoadIfNeeded(context.Background())
	} else {
		prefsWindow.Show()
	}

	fyneApp.Run()

	coord.Stop()
	scheduler.Stop()
	menuTimer.Close()
	wakeWatcher.Stop()
}

// buildView assembles the tray rendering from the coordinator snapshot, the
// running timer and the configured targets.
func buildView(coord *coordinator.Coordinator, menuTimer *ticker.Ticker, current settings.Settings) tray.View {
	snapshot := coord.Snapshot()
	view := tray.View{Loading: snapshot.Loading}

	if entry := snapshot.CurrentEntry; entry != nil {
		view.RunningDescription = entryLabel(coord, *entry)
		view.Elapsed = menuTimer.ElapsedText()
	}

	view.TodayLine = statsLine("Today", snapshot.Stats.TodaySeconds, current.TargetDailyHours)
	view.WeekLine = statsLine("This week", snapshot.Stats.WeekSeconds, current.TargetWeeklyHours)

	for _, entry := range snapshot.Continuable {
		view.Continuable = append(view.Continuable, tray.ContinueOption{
			Entry: entry,
			Label: entryLabel(coord, entry),
		})
	}

	if user := snapshot.User; user != nil {
		view.UserLine = user.Fullname
		if user.Email != "" {
			view.UserLine = fmt.Sprintf("%s (%s)", user.Fullname, user.Email)
		}
	}

	if snapshot.RateLimit.IsLow() && snapshot.RateLimit.Remaining != nil {
		view.RateLimitWarning = fmt.Sprintf("API quota low: %d requests left", *snapshot.RateLimit.Remaining)
		if estimate := format.ResetEstimate(snapshot.RateLimit.ResetAt, time.Now()); estimate != "" {
			view.RateLimitWarning += ", resets " + estimate
		}
	}

	return view
}

func entryLabel(coord *coordinator.Coordinator, entry model.TimeEntry) string {
	label := entry.DescriptionText()
	if label == "" {
		label = "(no description)"
	}
	if project := coord.ProjectName(entry.ProjectID); project != "" {
		label = label + " - " + project
	}
	return label
}

func statsLine(label string, seconds int64, targetHours int) string {
	line := fmt.Sprintf("%s: %s", label, format.HoursMinutes(seconds))
	if targetHours > 0 {
		line += fmt.Sprintf(" / %dh", targetHours)
	}
	return line
}
