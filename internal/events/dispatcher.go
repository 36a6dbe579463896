package events

import (
	"context"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event)
	Subscribe(eventType EventType, handler EventHandler)
}

// ErrorLogger receives handler failures; handlers are best-effort and their
// errors never reach the publisher.
type ErrorLogger func(event Event, err error)

// inMemoryDispatcher runs handlers on their own goroutines so publishing
// never sits on a request's response path.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	onError   ErrorLogger
	wg        sync.WaitGroup
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher(onError ErrorLogger) *inMemoryDispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[EventType][]EventHandler),
		onError:   onError,
	}
}

// Publish invokes handlers for the given event asynchronously. Handler
// failures are reported to the error logger and swallowed.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		d.wg.Add(1)
		go func(h EventHandler) {
			defer d.wg.Done()
			// Detached from the request context: the response must not
			// wait for, or fail on, notification delivery.
			if err := h(context.WithoutCancel(ctx), event); err != nil && d.onError != nil {
				d.onError(event, err)
			}
		}(handler)
	}
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Wait blocks until in-flight handlers complete. Used on shutdown and in
// tests.
func (d *inMemoryDispatcher) Wait() {
	d.wg.Wait()
}
