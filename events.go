// Copyright 2026 The Corsa Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package corsa

import (
	"fmt"
	"hash/fnv"
	"reflect"
	"runtime"

	"github.com/google/uuid"
)

// Dispatch lifecycle event names. The event namespace is open: subscribing
// to (or publishing) names outside this set is allowed.
const (
	// EventError fires when a handler returns an error or signals one via
	// Fail. Payload: Err, plus the matched route and method.
	EventError = "error"

	// EventNotFound fires when no registered pattern matches the request
	// path under any method. Payload: the requested path and method.
	EventNotFound = "404"

	// EventMethodNotAllowed fires when the request path matches a registered
	// pattern only under a different method. Payload: the requested path and
	// method.
	EventMethodNotAllowed = "405"
)

// Event is a dispatch lifecycle notification. Name tags the variant; Err is
// set only for EventError, Route and Method are always set (for routing
// misses Route is the requested path, for handler errors the matched
// template).
type Event struct {
	Name   string
	Err    error
	Route  string
	Method string
}

// EventCallback receives published events. Callbacks run synchronously on
// the dispatching goroutine, in subscription order.
type EventCallback func(Event)

// Subscription identifies one registered event callback.
//
// ID is unique per subscription; Signature is derived from the callback's
// code, so two subscriptions of the same function share it. Unsubscribe
// removes this subscription and is a no-op if it is already gone.
type Subscription struct {
	ID        string
	Signature string
	EventName string

	hub *eventHub
}

// Unsubscribe removes this subscription. Idempotent.
func (s *Subscription) Unsubscribe() {
	s.hub.removeByID(s.ID)
}

type listener struct {
	id        string
	signature string
	eventName string
	callback  EventCallback
}

// eventHub is the subscription registry: an ordered list of listeners,
// filtered by event name at publish time. Like route registration,
// subscription management belongs to the setup phase.
type eventHub struct {
	listeners []listener
}

func newEventHub() *eventHub {
	return &eventHub{}
}

// callbackSignature derives a stable identifier from a callback's code:
// the function's entry point and symbol name, hashed. Used to find and
// remove a specific callback without comparing function values directly
// (which Go does not define).
func callbackSignature(cb EventCallback) string {
	pc := reflect.ValueOf(cb).Pointer()
	name := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = fn.Name()
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%x:%s", pc, name)
	return fmt.Sprintf("%016x", h.Sum64())
}

func (h *eventHub) add(eventName string, cb EventCallback) *Subscription {
	l := listener{
		id:        uuid.NewString(),
		signature: callbackSignature(cb),
		eventName: eventName,
		callback:  cb,
	}
	h.listeners = append(h.listeners, l)
	return &Subscription{
		ID:        l.id,
		Signature: l.signature,
		EventName: eventName,
		hub:       h,
	}
}

// removeBySignature removes every listener on eventName whose signature
// matches the callback. No-op when nothing matches.
func (h *eventHub) removeBySignature(eventName string, cb EventCallback) {
	sig := callbackSignature(cb)
	kept := h.listeners[:0]
	for _, l := range h.listeners {
		if l.eventName == eventName && l.signature == sig {
			continue
		}
		kept = append(kept, l)
	}
	h.listeners = kept
}

func (h *eventHub) removeByID(id string) {
	kept := h.listeners[:0]
	for _, l := range h.listeners {
		if l.id == id {
			continue
		}
		kept = append(kept, l)
	}
	h.listeners = kept
}

func (h *eventHub) removeByEvent(eventName string) {
	kept := h.listeners[:0]
	for _, l := range h.listeners {
		if l.eventName == eventName {
			continue
		}
		kept = append(kept, l)
	}
	h.listeners = kept
}

func (h *eventHub) removeAll() {
	h.listeners = nil
}

func (h *eventHub) publish(e Event) {
	for _, l := range h.listeners {
		if l.eventName == e.Name {
			l.callback(e)
		}
	}
}

// AddEventListener subscribes a callback to an event name and returns the
// subscription handle. Event names outside the lifecycle set are accepted.
func (r *Router) AddEventListener(eventName string, cb EventCallback) *Subscription {
	return r.events.add(eventName, cb)
}

// RemoveEventListener removes the subscriptions of cb on eventName, located
// by the callback's signature. Removing a callback that was never subscribed
// is a no-op.
func (r *Router) RemoveEventListener(eventName string, cb EventCallback) {
	r.events.removeBySignature(eventName, cb)
}

// Off removes every subscription on eventName.
func (r *Router) Off(eventName string) {
	r.events.removeByEvent(eventName)
}

// RemoveAllEventListeners clears the subscription registry.
func (r *Router) RemoveAllEventListeners() {
	r.events.removeAll()
}

// Emit publishes an event to subscribers of e.Name. The router publishes the
// lifecycle events itself; Emit exists for extensions using custom names.
func (r *Router) Emit(e Event) {
	r.events.publish(e)
}
