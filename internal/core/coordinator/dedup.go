package coordinator

import "togglbar/internal/core/model"

// continueKey collapses duplicate logical entries for the "continue" menu.
type continueKey struct {
	description string
	hasProject  bool
	projectID   int64
}

// dedupEntries returns at most one entry per distinct (description,
// projectID) pair, keeping the first occurrence and preserving fetch order.
// Entries arrive most recent first, so the kept occurrence is the latest
// run of each logical task.
func dedupEntries(entries []model.TimeEntry) []model.TimeEntry {
	seen := make(map[continueKey]struct{}, len(entries))
	unique := make([]model.TimeEntry, 0, len(entries))
	for _, entry := range entries {
		key := continueKey{description: entry.DescriptionText()}
		if entry.ProjectID != nil {
			key.hasProject = true
			key.projectID = *entry.ProjectID
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, entry)
	}
	return unique
}
