/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package engine

import (
	"context"

	"github.com/numaproj/keyedflow/pkg/event"
)

// Context is the capability set handed to a callback. It is scoped to a single key and is only valid for
// the duration of the invocation that received it.
type Context[S, O any] interface {
	// GetState returns the key's state and whether there is any.
	GetState() (S, bool)
	// SetState replaces the key's state.
	SetState(S)
	// ClearState drops the key's state.
	ClearState()
	// RegisterTimer schedules OnTimer for the key once the watermark reaches fireTime.
	RegisterTimer(fireTime event.EventTime)
	// CancelTimer removes a timer previously registered at fireTime. Cancelling a timer that already
	// fired or never existed is a no-op.
	CancelTimer(fireTime event.EventTime)
	// Emit hands a result to the sink once the callback returns successfully.
	Emit(O)
}

// Handler is the application logic driven by the engine.
type Handler[K comparable, P, S, O any] interface {
	// OnEvent is invoked once for every ingested event, late events included.
	OnEvent(ctx context.Context, ev event.Event[K, P], kc Context[S, O]) error
	// OnTimer is invoked once for every timer of key that became due. The key's state may already have
	// been cleared if the timer was popped before a racing cancellation.
	OnTimer(ctx context.Context, key K, fireTime event.EventTime, kc Context[S, O]) error
}

// HandlerFuncs adapts a pair of functions to Handler. A nil function is a no-op.
type HandlerFuncs[K comparable, P, S, O any] struct {
	Event func(ctx context.Context, ev event.Event[K, P], kc Context[S, O]) error
	Timer func(ctx context.Context, key K, fireTime event.EventTime, kc Context[S, O]) error
}

func (h HandlerFuncs[K, P, S, O]) OnEvent(ctx context.Context, ev event.Event[K, P], kc Context[S, O]) error {
	if h.Event == nil {
		return nil
	}
	return h.Event(ctx, ev, kc)
}

func (h HandlerFuncs[K, P, S, O]) OnTimer(ctx context.Context, key K, fireTime event.EventTime, kc Context[S, O]) error {
	if h.Timer == nil {
		return nil
	}
	return h.Timer(ctx, key, fireTime, kc)
}
