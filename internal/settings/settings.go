// Package settings holds user preferences and publishes per-key change
// streams to the core components that depend on them.
package settings

// Settings defines editable user preferences.
type Settings struct {
	APIKey              string
	TargetDailyHours    int
	TargetWeeklyHours   int
	PomodoroSizeMinutes int
	LaunchAtLogin       bool
}

// Default returns the out-of-the-box settings: no API key, no targets, and
// pomodoro reminders disabled.
func Default() Settings {
	return Settings{}
}
