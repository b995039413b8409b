package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher publishes domain events to registered handlers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// asyncDispatcher runs handlers on their own goroutine so a slow or failing
// notification never delays the lifecycle transition that produced the event.
type asyncDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	logger    *zap.Logger
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher(logger *zap.Logger) Dispatcher {
	return &asyncDispatcher{
		listeners: make(map[EventType][]EventHandler),
		logger:    logger,
	}
}

// Publish hands the event to all handlers for its type and returns
// immediately. Handler errors are logged, never propagated to the caller.
func (d *asyncDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}
	go func() {
		// Detach from the request context so an event outlives the HTTP
		// request that triggered it.
		ctx := context.WithoutCancel(ctx)
		for _, handler := range handlers {
			if err := handler(ctx, event); err != nil {
				d.logger.Warn("event handler failed",
					zap.String("event_type", string(event.Type)),
					zap.String("ticket_id", event.TicketID),
					zap.Error(err))
			}
		}
	}()
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *asyncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}
