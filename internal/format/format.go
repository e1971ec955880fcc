// Package format holds small display formatting helpers shared by the
// coordinator and the tray menu.
package format

import (
	"fmt"
	"time"
)

const dateOnly = "2006-01-02"

// ElapsedTime renders a number of seconds as "HH:MM:SS". Negative input is
// clamped to zero.
func ElapsedTime(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// HoursMinutes renders a number of seconds as "Hh MMm" for menu totals.
func HoursMinutes(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}

// DateOnly renders a timestamp as "yyyy-MM-dd", the format the Toggl entries
// endpoint expects for start_date and end_date.
func DateOnly(at time.Time) string {
	return at.Format(dateOnly)
}

// DateRange returns the date strings covering the trailing lastDays days.
// The end date is tomorrow so entries started today are always included.
func DateRange(now time.Time, lastDays int) (start, end string) {
	return DateOnly(now.AddDate(0, 0, -lastDays)), DateOnly(now.AddDate(0, 0, 1))
}

// ResetEstimate renders a human readable "in Ns" estimate for a quota reset
// timestamp, or "" when the reset time is unknown or already passed.
func ResetEstimate(resetAt *time.Time, now time.Time) string {
	if resetAt == nil {
		return ""
	}
	remaining := resetAt.Sub(now)
	if remaining <= 0 {
		return ""
	}
	return fmt.Sprintf("in %ds", int(remaining.Round(time.Second).Seconds()))
}
