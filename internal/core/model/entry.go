package model

import "time"

// TimeEntry is a single continuous tracked work interval, as returned by the
// Toggl Track v9 API. A negative Duration means the entry is still running.
type TimeEntry struct {
	ID              int64    `json:"id"`
	WorkspaceID     int64    `json:"workspace_id"`
	ProjectID       *int64   `json:"project_id"`
	TaskID          *int64   `json:"task_id"`
	Billable        bool     `json:"billable"`
	Start           string   `json:"start"`
	Stop            *string  `json:"stop"`
	Duration        int64    `json:"duration"`
	Description     *string  `json:"description"`
	Tags            []string `json:"tags,omitempty"`
	TagIDs          []int64  `json:"tag_ids,omitempty"`
	ModifiedAt      string   `json:"at"`
	ServerDeletedAt *string  `json:"server_deleted_at"`
	UserID          int64    `json:"user_id"`
}

// IsRunning reports whether the entry is currently being tracked.
func (entry TimeEntry) IsRunning() bool {
	return entry.Duration < 0
}

// StartTime parses the entry start timestamp. ok is false when the
// timestamp is missing or malformed.
func (entry TimeEntry) StartTime() (time.Time, bool) {
	if entry.Start == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339, entry.Start)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// DescriptionText returns the description or "" when absent.
func (entry TimeEntry) DescriptionText() string {
	if entry.Description == nil {
		return ""
	}
	return *entry.Description
}
