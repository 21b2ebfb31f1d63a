// Package events supports the registering and receiving of node events
// such as mining progress and block acceptance.
package events

import (
	"fmt"
	"sync"
)

// Since a message is dropped when a websocket receiver is not ready,
// this buffer gives a slow receiver room to catch up.
const messageBuffer = 100

// Events maintains a mapping of unique ids to channels so goroutines
// can register for and receive node events.
type Events struct {
	mu          sync.RWMutex
	subscribers map[string]chan string
}

// New constructs an Events for registering and receiving events.
func New() *Events {
	return &Events{
		subscribers: make(map[string]chan string),
	}
}

// Shutdown closes and removes every channel handed out by Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subscribers {
		delete(evt.subscribers, id)
		close(ch)
	}
}

// Acquire takes a unique id and returns a channel that can be used
// to receive events.
func (evt *Events) Acquire(id string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.subscribers[id]; exists {
		return ch
	}

	ch := make(chan string, messageBuffer)
	evt.subscribers[id] = ch
	return ch
}

// Release closes and removes the channel that was provided by the
// call to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subscribers[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.subscribers, id)
	close(ch)
	return nil
}

// Send signals a message to every registered channel. Send will not
// block waiting for a receiver on any given channel.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.subscribers {
		select {
		case ch <- s:
		default:
		}
	}
}
