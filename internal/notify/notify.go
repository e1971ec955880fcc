// Package notify defines the notification capability consumed by the core:
// show a notification with a category and action payload, and deliver action
// callbacks. One process-wide implementation is constructed at startup and
// passed explicitly to consumers.
package notify

import "sync"

// CategoryPomodoro marks a break reminder carrying a "stop current entry"
// action.
const CategoryPomodoro = "pomodoro-finished"

// Notification is one request to the OS notification capability.
type Notification struct {
	Title    string
	Body     string
	Category string
	EntryID  int64
}

// Notifier displays notifications.
type Notifier interface {
	Show(notification Notification)
}

// ActionType identifies a notification action invoked by the user.
type ActionType string

// ActionStopCurrentEntry asks the coordinator to stop the entry named in the
// notification.
const ActionStopCurrentEntry ActionType = "stop_current_entry"

// Action is a notification action callback routed back to the coordinator.
type Action struct {
	Type    ActionType
	EntryID int64
}

// Hub fans notification action callbacks out to subscribers.
type Hub struct {
	mu   sync.Mutex
	subs []chan Action
}

// NewHub creates an action hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers a new observer channel for actions.
func (hub *Hub) Subscribe(buffer int) <-chan Action {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Action, buffer)
	hub.mu.Lock()
	hub.subs = append(hub.subs, ch)
	hub.mu.Unlock()
	return ch
}

// Dispatch delivers an action to all subscribers.
func (hub *Hub) Dispatch(action Action) {
	hub.mu.Lock()
	subs := append([]chan Action(nil), hub.subs...)
	hub.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- action:
		default:
		}
	}
}
