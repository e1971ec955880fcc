package coordinator

import "time"

// EventType defines the type of Coordinator event.
type EventType string

const (
	// EventStateChange fires when the snapshot (user, entries, current
	// entry, loading flags) is replaced.
	EventStateChange EventType = "state_change"
	// EventStatsChange fires when the today/week totals are recomputed.
	EventStatsChange EventType = "stats_change"
	// EventRateLimit fires when a fresh rate-limit snapshot arrives.
	EventRateLimit EventType = "rate_limit"
	// EventError fires when an operation failed; Message carries the
	// user-facing description.
	EventError EventType = "error"
)

// Event represents a Coordinator update for observers.
type Event struct {
	Type    EventType
	Message string
	At      time.Time
}
