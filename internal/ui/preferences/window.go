// Package preferences implements the settings window.
package preferences

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"togglbar/internal/settings"
)

// Window handles the settings UI.
type Window struct {
	window      fyne.Window
	current     settings.Settings
	onSave      func(settings.Settings)
	apiKey      *widget.Entry
	pomodoro    *widget.Entry
	dailyHours  *widget.Entry
	weeklyHours *widget.Entry
	launch      *widget.Check
}

// New creates the settings window. onSave receives the edited values when
// the user confirms.
func New(app fyne.App, current settings.Settings, onSave func(settings.Settings)) *Window {
	window := app.NewWindow("TogglBar Settings")

	apiKey := widget.NewPasswordEntry()
	apiKey.SetPlaceHolder("Toggl Track API token")

	pomodoro := widget.NewEntry()
	dailyHours := widget.NewEntry()
	weeklyHours := widget.NewEntry()
	launch := widget.NewCheck("Launch at login", nil)

	prefs := &Window{
		window:      window,
		onSave:      onSave,
		apiKey:      apiKey,
		pomodoro:    pomodoro,
		dailyHours:  dailyHours,
		weeklyHours: weeklyHours,
		launch:      launch,
	}
	prefs.UpdateSettings(current)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Account", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("API token"),
		apiKey,
		widget.NewLabelWithStyle("Pomodoro", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Remind after"), pomodoro, widget.NewLabel("min (0 disables)")),
		widget.NewLabelWithStyle("Targets", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Daily target"), dailyHours, widget.NewLabel("hours (0 hides)")),
		container.NewHBox(widget.NewLabel("Weekly target"), weeklyHours, widget.NewLabel("hours (0 hides)")),
		launch,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 360))
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the settings window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces the window values.
func (prefs *Window) UpdateSettings(current settings.Settings) {
	prefs.current = current
	prefs.apiKey.SetText(current.APIKey)
	prefs.pomodoro.SetText(fmt.Sprintf("%d", current.PomodoroSizeMinutes))
	prefs.dailyHours.SetText(fmt.Sprintf("%d", current.TargetDailyHours))
	prefs.weeklyHours.SetText(fmt.Sprintf("%d", current.TargetWeeklyHours))
	prefs.launch.SetChecked(current.LaunchAtLogin)
}

func (prefs *Window) handleSave() {
	updated := prefs.current
	updated.APIKey = prefs.apiKey.Text

	if minutes, ok := parseNonNegativeInt(prefs.pomodoro.Text); ok {
		updated.PomodoroSizeMinutes = minutes
	}
	if hours, ok := parseNonNegativeInt(prefs.dailyHours.Text); ok {
		updated.TargetDailyHours = hours
	}
	if hours, ok := parseNonNegativeInt(prefs.weeklyHours.Text); ok {
		updated.TargetWeeklyHours = hours
	}
	updated.LaunchAtLogin = prefs.launch.Checked

	prefs.current = updated
	if prefs.onSave != nil {
		prefs.onSave(updated)
	}
	prefs.window.Hide()
}

func parseNonNegativeInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}
