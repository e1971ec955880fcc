package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"togglbar/internal/core/model"
)

// Toggl web pages reachable from the menu.
const (
	LinkTimer   = "https://track.toggl.com/timer"
	LinkReports = "https://track.toggl.com/reports"
	LinkProfile = "https://track.toggl.com/profile"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStop     func()
	OnContinue func(model.TimeEntry)
	OnRefresh  func()
	OnOpenLink func(url string)
	OnSettings func()
	OnQuit     func()
}

// ContinueOption is one recent entry offered in the Continue submenu.
type ContinueOption struct {
	Entry model.TimeEntry
	Label string
}

// View is everything the menu renders, assembled by the caller from the
// coordinator snapshot and the running timer.
type View struct {
	RunningDescription string
	Elapsed            string
	TodayLine          string
	WeekLine           string
	Continuable        []ContinueOption
	RateLimitWarning   string
	UserLine           string
	Loading            bool
}

// Manager renders the system tray menu. All methods must be called on the
// fyne main goroutine.
type Manager struct {
	app       desktop.App
	callbacks Callbacks
	view      View
}

// New creates a tray manager and shows the initial menu.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		view:      View{Loading: true},
	}
	manager.rebuild()
	return manager
}

// Update replaces the rendered state and rebuilds the menu.
func (manager *Manager) Update(view View) {
	manager.view = view
	manager.rebuild()
}

func (manager *Manager) rebuild() {
	items := []*fyne.MenuItem{manager.statusItem()}

	if manager.view.RunningDescription != "" {
		stop := fyne.NewMenuItem("Stop", func() {
			if manager.callbacks.OnStop != nil {
				manager.callbacks.OnStop()
			}
		})
		items = append(items, stop)
	}

	if continueItem := manager.continueItem(); continueItem != nil {
		items = append(items, continueItem)
	}

	items = append(items, fyne.NewMenuItemSeparator())
	items = append(items, manager.statsItems()...)

	if manager.view.RateLimitWarning != "" {
		warning := fyne.NewMenuItem(manager.view.RateLimitWarning, nil)
		warning.Disabled = true
		items = append(items, fyne.NewMenuItemSeparator(), warning)
	}

	if manager.view.UserLine != "" {
		user := fyne.NewMenuItem(manager.view.UserLine, nil)
		user.Disabled = true
		items = append(items, fyne.NewMenuItemSeparator(), user)
	}

	items = append(items,
		fyne.NewMenuItemSeparator(),
		manager.linkItem("Open Toggl Timer", LinkTimer),
		manager.linkItem("Open Reports", LinkReports),
		manager.linkItem("Open Profile", LinkProfile),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Refresh", func() {
			if manager.callbacks.OnRefresh != nil {
				manager.callbacks.OnRefresh()
			}
		}),
		fyne.NewMenuItem("Settings", func() {
			if manager.callbacks.OnSettings != nil {
				manager.callbacks.OnSettings()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)

	manager.app.SetSystemTrayMenu(fyne.NewMenu("TogglBar", items...))
}

func (manager *Manager) statusItem() *fyne.MenuItem {
	label := "Not running"
	switch {
	case manager.view.Loading:
		label = "Loading..."
	case manager.view.RunningDescription != "":
		label = manager.view.RunningDescription
		if manager.view.Elapsed != "" {
			label = fmt.Sprintf("%s  %s", label, manager.view.Elapsed)
		}
	}
	item := fyne.NewMenuItem(label, nil)
	item.Disabled = true
	return item
}

func (manager *Manager) continueItem() *fyne.MenuItem {
	if len(manager.view.Continuable) == 0 {
		return nil
	}

	children := make([]*fyne.MenuItem, 0, len(manager.view.Continuable))
	for _, option := range manager.view.Continuable {
		entry := option.Entry
		children = append(children, fyne.NewMenuItem(option.Label, func() {
			if manager.callbacks.OnContinue != nil {
				manager.callbacks.OnContinue(entry)
			}
		}))
	}

	item := fyne.NewMenuItem("Continue", nil)
	item.ChildMenu = fyne.NewMenu("", children...)
	return item
}

func (manager *Manager) statsItems() []*fyne.MenuItem {
	today := fyne.NewMenuItem(manager.view.TodayLine, nil)
	today.Disabled = true
	week := fyne.NewMenuItem(manager.view.WeekLine, nil)
	week.Disabled = true
	return []*fyne.MenuItem{today, week}
}

func (manager *Manager) linkItem(label, url string) *fyne.MenuItem {
	return fyne.NewMenuItem(label, func() {
		if manager.callbacks.OnOpenLink != nil {
			manager.callbacks.OnOpenLink(url)
		}
	})
}
