// Package events provides typed publish/subscribe emitters.
package events

import "sync"

// EventHandler is invoked with each published event. A non-nil error stops delivery of that event to handlers
// subscribed after it and is returned to the publisher.
type EventHandler[T any] func(T) error

// EventEmitter holds the EventHandler subscriptions for one event type.
type EventEmitter[T any] struct {
	subscriptions []EventHandler[T]
	lock          sync.RWMutex
}

// Subscribe adds an EventHandler which is called for every event published afterwards.
func (e *EventEmitter[T]) Subscribe(callback EventHandler[T]) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.subscriptions = append(e.subscriptions, callback)
}

// SubscriptionCount returns the number of subscribed handlers.
func (e *EventEmitter[T]) SubscriptionCount() int {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return len(e.subscriptions)
}

// Publish calls every subscribed EventHandler in subscription order and returns the first error encountered.
func (e *EventEmitter[T]) Publish(event T) error {
	e.lock.RLock()
	subscriptions := make([]EventHandler[T], len(e.subscriptions))
	copy(subscriptions, e.subscriptions)
	e.lock.RUnlock()

	for _, subscription := range subscriptions {
		if err := subscription(event); err != nil {
			return err
		}
	}
	return nil
}
