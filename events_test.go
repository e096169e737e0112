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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSubscribeAndEmit(t *testing.T) {
	t.Parallel()
	r := MustNew()
	var got []Event
	sub := r.AddEventListener("custom", func(e Event) { got = append(got, e) })
	require.NotNil(t, sub)
	assert.NotEmpty(t, sub.ID)
	assert.NotEmpty(t, sub.Signature)
	assert.Equal(t, "custom", sub.EventName)

	r.Emit(Event{Name: "custom", Route: "/r", Method: "GET"})
	r.Emit(Event{Name: "other"})

	require.Len(t, got, 1, "only the subscribed name is delivered")
	assert.Equal(t, "/r", got[0].Route)
}

func TestEventCallbacksRunInSubscriptionOrder(t *testing.T) {
	t.Parallel()
	r := MustNew()
	var order []int
	r.AddEventListener("e", func(Event) { order = append(order, 1) })
	r.AddEventListener("e", func(Event) { order = append(order, 2) })
	r.AddEventListener("e", func(Event) { order = append(order, 3) })

	r.Emit(Event{Name: "e"})
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestEventUnsubscribeIsIdempotent(t *testing.T) {
	t.Parallel()
	r := MustNew()
	calls := 0
	sub := r.AddEventListener("e", func(Event) { calls++ })

	sub.Unsubscribe()
	sub.Unsubscribe() // second call is a no-op

	r.Emit(Event{Name: "e"})
	assert.Zero(t, calls)
}

func TestEventRemoveByCallback(t *testing.T) {
	t.Parallel()
	r := MustNew()
	kept, removed := 0, 0
	keptCb := func(Event) { kept++ }
	removedCb := func(Event) { removed++ }

	r.AddEventListener("e", keptCb)
	r.AddEventListener("e", removedCb)
	r.RemoveEventListener("e", removedCb)

	r.Emit(Event{Name: "e"})
	assert.Equal(t, 1, kept)
	assert.Zero(t, removed)
}

func TestEventRemoveUnknownCallbackIsNoop(t *testing.T) {
	t.Parallel()
	r := MustNew()
	calls := 0
	subscribedCb := func(Event) { calls++ }
	r.AddEventListener("e", subscribedCb)

	var strangerCalls int
	r.RemoveEventListener("e", func(Event) { strangerCalls++ })
	r.RemoveEventListener("never-subscribed", subscribedCb)

	r.Emit(Event{Name: "e"})
	assert.Equal(t, 1, calls)
	assert.Zero(t, strangerCalls)
}

func TestEventOffRemovesOnlyThatName(t *testing.T) {
	t.Parallel()
	r := MustNew()
	aCalls, bCalls := 0, 0
	r.AddEventListener("a", func(Event) { aCalls++ })
	r.AddEventListener("a", func(Event) { aCalls++ })
	r.AddEventListener("b", func(Event) { bCalls++ })

	r.Off("a")

	r.Emit(Event{Name: "a"})
	r.Emit(Event{Name: "b"})
	assert.Zero(t, aCalls)
	assert.Equal(t, 1, bCalls)
}

func TestEventRemoveAll(t *testing.T) {
	t.Parallel()
	r := MustNew()
	calls := 0
	r.AddEventListener("a", func(Event) { calls++ })
	r.AddEventListener("b", func(Event) { calls++ })

	r.RemoveAllEventListeners()

	r.Emit(Event{Name: "a"})
	r.Emit(Event{Name: "b"})
	assert.Zero(t, calls)
}

func TestEventSameCallbackTwiceSharesSignature(t *testing.T) {
	t.Parallel()
	r := MustNew()
	calls := 0
	cb := func(Event) { calls++ }

	sub1 := r.AddEventListener("e", cb)
	sub2 := r.AddEventListener("e", cb)
	assert.NotEqual(t, sub1.ID, sub2.ID)
	assert.Equal(t, sub1.Signature, sub2.Signature)

	r.Emit(Event{Name: "e"})
	assert.Equal(t, 2, calls, "both subscriptions fire")

	// Removing by callback drops every subscription sharing the signature.
	r.RemoveEventListener("e", cb)
	r.Emit(Event{Name: "e"})
	assert.Equal(t, 2, calls)
}
