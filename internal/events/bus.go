package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers
// Usage: bus.Publish(SceneSwitchedEvent{...})
//
// kelindar/event dispatches on the concrete type parameter, so publishing
// through the Event interface needs one case per event type here and in
// Subscribe. A new event type must be added to both switches.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case ConnectionStateEvent:
		event.Publish(b.dispatcher, e)
	case SceneSwitchedEvent:
		event.Publish(b.dispatcher, e)
	case StreamStateChangedEvent:
		event.Publish(b.dispatcher, e)
	case StudioModeChangedEvent:
		event.Publish(b.dispatcher, e)
	case MediaStateChangedEvent:
		event.Publish(b.dispatcher, e)
	case SourceVisibilityEvent:
		event.Publish(b.dispatcher, e)
	case TallyChangedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function.
// The handler type determines which events it receives.
// Returns an unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e SceneSwitchedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(ConnectionStateEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SceneSwitchedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(StreamStateChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(StudioModeChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(MediaStateChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SourceVisibilityEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(TallyChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		// Return a no-op function if handler type is not recognized
		return func() {}
	}
}
