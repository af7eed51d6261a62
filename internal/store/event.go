package store

import "taskctl/internal/service"

// EventKind identifies what happened to the snapshot.
type EventKind int

const (
	EventAdded EventKind = iota + 1
	EventUpdated
	EventRemoved
	EventRefreshed
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventUpdated:
		return "updated"
	case EventRemoved:
		return "removed"
	case EventRefreshed:
		return "refreshed"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners after an operation completes.
type Event struct {
	Kind EventKind

	// Op names the store operation ("add", "edit", "remove", ...).
	Op string

	// Task is set for added and updated events.
	Task service.Task

	// ID is set for removed events and for errors that target one task.
	ID service.ID

	// Snapshot is a copy of the snapshot after the operation.
	Snapshot []service.Task

	// Err is set for error events.
	Err error
}

// Listener receives events synchronously on the goroutine that ran the operation.
type Listener func(Event)

// Callbacks adapts per-kind presentation callbacks to a Listener.
// Nil callbacks are skipped.
type Callbacks struct {
	OnAdded     func(service.Task)
	OnUpdated   func(service.Task)
	OnRemoved   func(service.ID)
	OnRefreshed func([]service.Task)
	OnError     func(kind service.Kind, message string)
}

// Listener returns the Listener that dispatches to c.
func (c Callbacks) Listener() Listener {
	return func(ev Event) {
		switch ev.Kind {
		case EventAdded:
			if c.OnAdded != nil {
				c.OnAdded(ev.Task)
			}
		case EventUpdated:
			if c.OnUpdated != nil {
				c.OnUpdated(ev.Task)
			}
		case EventRemoved:
			if c.OnRemoved != nil {
				c.OnRemoved(ev.ID)
			}
		case EventRefreshed:
			if c.OnRefreshed != nil {
				c.OnRefreshed(ev.Snapshot)
			}
		case EventError:
			if c.OnError != nil {
				c.OnError(service.KindOf(ev.Err), ev.Err.Error())
			}
		}
	}
}
