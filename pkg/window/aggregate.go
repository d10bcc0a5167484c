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

package window

import (
	"context"
	"maps"

	"github.com/numaproj/keyedflow/pkg/engine"
	"github.com/numaproj/keyedflow/pkg/event"
)

// Result is the aggregate of one key over one window.
type Result[K comparable, A any] struct {
	Key    K      `json:"key"`
	Window Window `json:"window"`
	Value  A      `json:"value"`
}

// Accumulators is the per-key state of Aggregate: one accumulator for every window that is still open. A map
// stored in the engine is never changed, every update stores a modified copy.
type Accumulators[A any] map[Window]A

// Aggregate is an engine.Handler folding the values of every key into per-window accumulators. The first value
// of a window registers a timer at the window end; when it fires the window's Result is emitted and the
// window forgotten. A value arriving after its window was flushed opens the window again, and since its timer
// is already due the late partial result is emitted right away.
type Aggregate[K comparable, V, A any] struct {
	assigner   Assigner
	aggregator Aggregator[V, A]
}

var _ engine.Handler[string, int, Accumulators[int], Result[string, int]] = (*Aggregate[string, int, int])(nil)

// NewAggregate returns an Aggregate handler.
func NewAggregate[K comparable, V, A any](assigner Assigner, aggregator Aggregator[V, A]) *Aggregate[K, V, A] {
	return &Aggregate[K, V, A]{assigner: assigner, aggregator: aggregator}
}

func (a *Aggregate[K, V, A]) OnEvent(_ context.Context, ev event.Event[K, V], kc engine.Context[Accumulators[A], Result[K, A]]) error {
	w := a.assigner.AssignWindow(ev.Timestamp)
	prev, _ := kc.GetState()
	accs := make(Accumulators[A], len(prev)+1)
	maps.Copy(accs, prev)
	acc, open := accs[w]
	if !open {
		acc = a.aggregator.CreateAccumulator()
		kc.RegisterTimer(w.End)
	}
	accs[w] = a.aggregator.Add(ev.Payload, acc)
	kc.SetState(accs)
	return nil
}

func (a *Aggregate[K, V, A]) OnTimer(_ context.Context, key K, fireTime event.EventTime, kc engine.Context[Accumulators[A], Result[K, A]]) error {
	prev, ok := kc.GetState()
	if !ok {
		return nil
	}
	accs := maps.Clone(prev)
	for w, acc := range prev {
		if w.End != fireTime {
			continue
		}
		kc.Emit(Result[K, A]{Key: key, Window: w, Value: acc})
		delete(accs, w)
	}
	if len(accs) == 0 {
		kc.ClearState()
		return nil
	}
	kc.SetState(accs)
	return nil
}

// ReduceAll is an engine.Handler keyed by Window that keeps the best Result of a window across all keys and
// emits it when the window closes. better reports whether candidate should replace current; on ties the first
// result wins.
type ReduceAll[K comparable, A any] struct {
	better func(candidate, current Result[K, A]) bool
}

var _ engine.Handler[Window, Result[string, int], Result[string, int], Result[string, int]] = (*ReduceAll[string, int])(nil)

// NewReduceAll returns a ReduceAll handler.
func NewReduceAll[K comparable, A any](better func(candidate, current Result[K, A]) bool) *ReduceAll[K, A] {
	return &ReduceAll[K, A]{better: better}
}

// MaxBy returns a ReduceAll keeping the Result with the largest value according to less.
func MaxBy[K comparable, A any](less func(a, b A) bool) *ReduceAll[K, A] {
	return NewReduceAll[K, A](func(candidate, current Result[K, A]) bool {
		return less(current.Value, candidate.Value)
	})
}

func (r *ReduceAll[K, A]) OnEvent(_ context.Context, ev event.Event[Window, Result[K, A]], kc engine.Context[Result[K, A], Result[K, A]]) error {
	current, ok := kc.GetState()
	if !ok {
		kc.SetState(ev.Payload)
		kc.RegisterTimer(ev.Key.End)
		return nil
	}
	if r.better(ev.Payload, current) {
		kc.SetState(ev.Payload)
	}
	return nil
}

func (r *ReduceAll[K, A]) OnTimer(_ context.Context, _ Window, _ event.EventTime, kc engine.Context[Result[K, A], Result[K, A]]) error {
	best, ok := kc.GetState()
	if !ok {
		return nil
	}
	kc.Emit(best)
	kc.ClearState()
	return nil
}
