package notify

import "fyne.io/fyne/v2"

// FyneNotifier delivers notifications through the Fyne system notification
// API. Fyne notifications carry no action buttons, so the pomodoro "stop
// current entry" action is also reachable from the tray menu and routed
// through the Hub by the UI layer.
type FyneNotifier struct {
	app fyne.App
}

// NewFyneNotifier creates a notifier backed by the given Fyne app.
func NewFyneNotifier(app fyne.App) *FyneNotifier {
	return &FyneNotifier{app: app}
}

// Show displays a system notification.
func (notifier *FyneNotifier) Show(notification Notification) {
	notifier.app.SendNotification(fyne.NewNotification(notification.Title, notification.Body))
}
