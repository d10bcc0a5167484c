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
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/numaproj/keyedflow/pkg/event"
	"github.com/numaproj/keyedflow/pkg/shared/logging"
	"github.com/numaproj/keyedflow/pkg/shuffle"
	"github.com/numaproj/keyedflow/pkg/sinks"
	"github.com/numaproj/keyedflow/pkg/sinks/blackhole"
	"github.com/numaproj/keyedflow/pkg/state"
	"github.com/numaproj/keyedflow/pkg/timer"
	"github.com/numaproj/keyedflow/pkg/udferr"
	"github.com/numaproj/keyedflow/pkg/watermark"
)

// Engine drives a Handler over keyed events. K is the key, P the event payload, S the per-key state and
// O the result type handed to the sink. An Engine is safe for concurrent use; callbacks must not call back
// into the engine that invoked them.
type Engine[K comparable, P, S, O any] struct {
	name    string
	handler Handler[K, P, S, O]
	sink    sinks.Sink[O]
	tracker *watermark.Tracker
	store   *state.Store[K, S]
	timers  *timer.Queue[K]
	// shuffle maps a key to its execution lock, the same key always maps to the same lock
	shuffle  *shuffle.Shuffle[K]
	keyLocks []sync.Mutex
	// drainLock serializes drains so timers fire in a single total order
	drainLock sync.Mutex
	// externalWatermark is set when only AdvanceWatermark moves the watermark
	externalWatermark bool
	metrics   engineMetrics
	log       *zap.SugaredLogger
}

// New returns an Engine invoking handler and writing emitted results to sink. A nil sink discards results.
func New[K comparable, P, S, O any](ctx context.Context, handler Handler[K, P, S, O], sink sinks.Sink[O], opts ...Option) (*Engine[K, P, S, O], error) {
	if handler == nil {
		return nil, udferr.NewConfigError("handler", nil, "must not be nil")
	}
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			if err := opt(o); err != nil {
				return nil, err
			}
		}
	}
	if sink == nil {
		sink = blackhole.NewBlackhole[O](o.name)
	}
	log := o.logger
	if log == nil {
		log = logging.FromContext(ctx)
	}
	return &Engine[K, P, S, O]{
		name:     o.name,
		handler:  handler,
		sink:     sink,
		tracker:  watermark.NewTracker(),
		store:    state.NewStore[K, S](o.shards),
		timers:   timer.NewQueue[K](),
		shuffle:  shuffle.NewShuffle[K](o.shards),
		keyLocks: make([]sync.Mutex, o.shards),
		metrics:  newEngineMetrics(o.name),
		log:      log.With("engine", o.name),

		externalWatermark: o.externalWatermark,
	}, nil
}

// Name returns the engine name.
func (e *Engine[K, P, S, O]) Name() string {
	return e.name
}

// Process ingests one event and then fires every timer that became due. Events behind the watermark are
// still dispatched, they just do not move the watermark; with WithExternalWatermark no event moves it.
// Callback failures are returned as *udferr.CallbackError; a failing timer does not prevent the remaining
// due timers from firing.
func (e *Engine[K, P, S, O]) Process(ctx context.Context, ev event.Event[K, P]) error {
	err := e.ingest(ctx, ev)
	return multierr.Append(err, e.drain(ctx))
}

// AdvanceWatermark moves the watermark to wm without an event, e.g. for an idle source, and fires every timer
// that became due. A wm behind the current watermark is ignored.
func (e *Engine[K, P, S, O]) AdvanceWatermark(ctx context.Context, wm event.EventTime) error {
	if e.tracker.Observe(wm) {
		e.metrics.watermark.Set(float64(wm))
	}
	return e.drain(ctx)
}

// Flush marks the end of a bounded input: the watermark jumps to the maximum and every outstanding timer
// fires.
func (e *Engine[K, P, S, O]) Flush(ctx context.Context) error {
	if next, ok := e.timers.Peek(); ok {
		e.log.Infow("Flushing engine", zap.Int("pendingTimers", e.timers.Len()), zap.String("earliestTimer", next.String()))
	}
	return e.AdvanceWatermark(ctx, event.MaxEventTime)
}

// Watermark returns the current watermark.
func (e *Engine[K, P, S, O]) Watermark() watermark.Watermark {
	return e.tracker.Current()
}

// State returns the state currently held for key. The value is shared with the handler and must be treated
// as read-only; handlers keeping reference types in state replace them instead of changing them in place.
func (e *Engine[K, P, S, O]) State(key K) (S, bool) {
	return e.store.Get(key)
}

// StateSize returns the number of keys holding state.
func (e *Engine[K, P, S, O]) StateSize() int {
	return e.store.Len()
}

// PendingTimers returns the number of outstanding timers.
func (e *Engine[K, P, S, O]) PendingTimers() int {
	return e.timers.Len()
}

func (e *Engine[K, P, S, O]) ingest(ctx context.Context, ev event.Event[K, P]) error {
	lock := e.lockFor(ev.Key)
	lock.Lock()
	defer lock.Unlock()

	e.metrics.events.Inc()
	if e.tracker.IsLate(ev.Timestamp) {
		e.metrics.lateEvents.Inc()
		e.log.Debugw("Late event", zap.Any("key", ev.Key), zap.Int64("eventTime", int64(ev.Timestamp)), zap.String("watermark", e.tracker.Current().String()))
	} else if !e.externalWatermark && e.tracker.Observe(ev.Timestamp) {
		e.metrics.watermark.Set(float64(ev.Timestamp))
	}
	return e.invoke(ctx, ev.Key, udferr.OnEvent, ev.Timestamp, func(kc Context[S, O]) error {
		return e.handler.OnEvent(ctx, ev, kc)
	})
}

// drain fires due timers one at a time, re-reading the watermark and the queue head after every callback.
func (e *Engine[K, P, S, O]) drain(ctx context.Context) error {
	e.drainLock.Lock()
	defer e.drainLock.Unlock()
	defer func() {
		e.metrics.pendingTimers.Set(float64(e.timers.Len()))
	}()

	var errs error
	for {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		t, ok := e.timers.PopNext(e.tracker.Current().EventTime())
		if !ok {
			return errs
		}
		e.metrics.timersFired.Inc()
		if err := e.fire(ctx, t); err != nil {
			e.log.Errorw("Timer callback failed", zap.Any("key", t.Key), zap.Int64("fireTime", int64(t.FireTime)), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
}

func (e *Engine[K, P, S, O]) fire(ctx context.Context, t event.Timer[K]) error {
	lock := e.lockFor(t.Key)
	lock.Lock()
	defer lock.Unlock()
	return e.invoke(ctx, t.Key, udferr.OnTimer, t.FireTime, func(kc Context[S, O]) error {
		return e.handler.OnTimer(ctx, t.Key, t.FireTime, kc)
	})
}

// invoke runs fn with a fresh Context for key and forwards the emitted results once fn succeeded. The caller
// holds the key's execution lock.
func (e *Engine[K, P, S, O]) invoke(ctx context.Context, key K, op udferr.Op, ts event.EventTime, fn func(Context[S, O]) error) (err error) {
	kc := &keyedContext[K, P, S, O]{engine: e, key: key}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = udferr.NewCallbackError(op, key, int64(ts), fmt.Errorf("panic: %v", r))
			e.metrics.callbackError(op.String())
		}
	}()
	cbErr := fn(kc)
	e.metrics.observeCallback(op.String(), float64(time.Since(start).Microseconds()))
	if cbErr != nil {
		e.metrics.callbackError(op.String())
		return udferr.NewCallbackError(op, key, int64(ts), cbErr)
	}
	for _, out := range kc.emitted {
		if err := e.sink.Write(ctx, out); err != nil {
			e.metrics.callbackError(udferr.Emit.String())
			return udferr.NewCallbackError(udferr.Emit, key, int64(ts), err)
		}
	}
	return nil
}

func (e *Engine[K, P, S, O]) lockFor(key K) *sync.Mutex {
	return &e.keyLocks[e.shuffle.Partition(key)]
}
