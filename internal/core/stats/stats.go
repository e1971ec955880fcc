// Package stats recomputes today/this-week worked totals from a fetched
// window of time entries.
package stats

import (
	"time"

	"togglbar/internal/core/model"
)

// Compute returns the worked-seconds totals for the local day and the local
// week containing now. The week starts on Monday at midnight regardless of
// locale. Running entries (negative duration) and entries with unparseable
// start timestamps are skipped; live elapsed time for the running entry is
// added separately by the consumer.
func Compute(entries []model.TimeEntry, now time.Time) model.TimeStats {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := mondayStart(dayStart)

	var result model.TimeStats
	for _, entry := range entries {
		if entry.Duration < 0 {
			continue
		}
		start, ok := entry.StartTime()
		if !ok {
			continue
		}
		if start.Before(weekStart) {
			continue
		}
		result.WeekSeconds += entry.Duration
		if !start.Before(dayStart) {
			result.TodaySeconds += entry.Duration
		}
	}
	return result
}

// mondayStart returns the most recent Monday midnight on or before dayStart.
func mondayStart(dayStart time.Time) time.Time {
	daysSinceMonday := (int(dayStart.Weekday()) + 6) % 7
	return dayStart.AddDate(0, 0, -daysSinceMonday)
}
