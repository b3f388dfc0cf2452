package services

import (
	"sync"

	"inkpress/models"

	"github.com/rs/zerolog"
)

type EventHandler func(models.Event)

// EventBus is a minimal in-process dispatcher. Publishing happens after
// the transition transaction has committed, so a slow subscriber can
// never abort a state change.
type EventBus struct {
	mu       sync.RWMutex
	handlers []EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

func (b *EventBus) Subscribe(handler EventHandler) {
	b.mu.Lock()
	b.handlers = append(b.handlers, handler)
	b.mu.Unlock()
}

func (b *EventBus) Publish(event models.Event) {
	b.mu.RLock()
	handlers := make([]EventHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// LoggingSubscriber records every domain event; wired by default so the
// event stream is visible even without an external notifier.
func LoggingSubscriber(log zerolog.Logger) EventHandler {
	return func(event models.Event) {
		log.Info().
			Str("event", event.Type).
			Uint("actor_id", event.ActorID).
			Str("target_type", event.TargetType).
			Uint("target_id", event.TargetID).
			Str("new_state", event.NewState).
			Msg("domain event")
	}
}
