package model

// TimeStats holds locally computed worked-seconds totals. Both values are
// recomputed wholesale from the fetched entry window, never patched.
type TimeStats struct {
	TodaySeconds int64
	WeekSeconds  int64
}
