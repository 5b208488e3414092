// Package events fans ledger activity out to registered receivers such as
// websocket clients.
package events

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Event is one step of ledger activity. The blockchain packages trace their
// work as "pkg: Func: STAGE: detail" and Parse turns that into an Event.
type Event struct {
	Time    int64  `json:"time"`
	Source  string `json:"source"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

// Parse converts a trace string into an Event stamped with the given time.
// The stage is the first upper case segment after the function name, so
// "worker: runMiningOperation: MINING: started" has a stage of MINING.
func Parse(s string, now time.Time) Event {
	ev := Event{
		Time:    now.UTC().UnixMilli(),
		Message: s,
	}

	parts := strings.Split(s, ": ")
	if len(parts) < 2 {
		return ev
	}

	ev.Source = parts[0]
	for _, part := range parts[2:] {
		if isStage(part) {
			ev.Stage = part
			break
		}
	}

	return ev
}

// isStage reports whether the segment is an upper case stage name.
func isStage(s string) bool {
	if s == "" || s != strings.ToUpper(s) {
		return false
	}

	return strings.ContainsFunc(s, func(r rune) bool { return r >= 'A' && r <= 'Z' })
}

// =============================================================================

// receiver is a registered channel and the stages it wants. No stages
// means every event.
type receiver struct {
	ch     chan Event
	stages map[string]bool
}

func (r receiver) wants(ev Event) bool {
	return len(r.stages) == 0 || r.stages[ev.Stage]
}

// Events maintains a mapping of unique id and receivers so goroutines
// can register and receive events.
type Events struct {
	m       map[string]receiver
	mu      sync.RWMutex
	dropped atomic.Uint64
}

// New constructs an events for registering and receiving events.
func New() *Events {
	return &Events{
		m: make(map[string]receiver),
	}
}

// Shutdown closes and removes all channels that were provided by
// the call to Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, r := range evt.m {
		delete(evt.m, id)
		close(r.ch)
	}
}

// Acquire takes a unique id and returns a channel that receives the events
// for the specified stages, or every event when no stages are given.
func (evt *Events) Acquire(id string, stages ...string) chan Event {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if r, exists := evt.m[id]; exists {
		return r.ch
	}

	// Events are dropped when a receiver falls behind. A mining run emits a
	// burst of events, so the buffer has to absorb one.
	const messageBuffer = 100

	r := receiver{
		ch:     make(chan Event, messageBuffer),
		stages: make(map[string]bool, len(stages)),
	}
	for _, stage := range stages {
		r.stages[strings.ToUpper(stage)] = true
	}

	evt.m[id] = r
	return r.ch
}

// Release closes and removes the channel that was provided by
// the call to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	r, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(r.ch)
	return nil
}

// Send delivers the event to every receiver that wants it. Send will not
// block waiting for a receiver; an event a receiver has no room for is
// dropped and counted.
func (evt *Events) Send(ev Event) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, r := range evt.m {
		if !r.wants(ev) {
			continue
		}

		select {
		case r.ch <- ev:
		default:
			evt.dropped.Add(1)
		}
	}
}

// Dropped returns the number of events receivers had no room for.
func (evt *Events) Dropped() uint64 {
	return evt.dropped.Load()
}
