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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/numaproj/keyedflow/pkg/engine"
	"github.com/numaproj/keyedflow/pkg/event"
	"github.com/numaproj/keyedflow/pkg/sinks/memory"
)

const hour = event.EventTime(3600000)

func newSumEngine(t *testing.T, name string) (*engine.Engine[string, int, Accumulators[int], Result[string, int]], *memory.Sink[Result[string, int]]) {
	t.Helper()
	tw, err := NewTumbling(time.Hour)
	require.NoError(t, err)
	sink := memory.New[Result[string, int]](name, 0)
	h := NewAggregate[string](tw, SumBy(func(v int) int { return v }))
	e, err := engine.New[string, int, Accumulators[int], Result[string, int]](context.Background(), h, sink, engine.WithName(name), engine.WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	return e, sink
}

func TestAggregate_SumsPerKeyAndWindow(t *testing.T) {
	ctx := context.Background()
	e, sink := newSumEngine(t, "aggregate-sum")

	require.NoError(t, e.Process(ctx, event.New("a", 10, 1)))
	require.NoError(t, e.Process(ctx, event.New("b", 20, 5)))
	require.NoError(t, e.Process(ctx, event.New("a", hour-1, 2)))
	assert.Empty(t, sink.Items())

	// first event of the next window closes the first one
	require.NoError(t, e.Process(ctx, event.New("a", hour, 10)))
	got := sink.Drain()
	assert.ElementsMatch(t, []Result[string, int]{
		{Key: "a", Window: Window{0, hour}, Value: 3},
		{Key: "b", Window: Window{0, hour}, Value: 5},
	}, got)

	_, ok := e.State("b")
	assert.False(t, ok)
	accs, ok := e.State("a")
	require.True(t, ok)
	assert.Equal(t, Accumulators[int]{Window{hour, 2 * hour}: 10}, accs)

	require.NoError(t, e.Flush(ctx))
	assert.Equal(t, []Result[string, int]{{Key: "a", Window: Window{hour, 2 * hour}, Value: 10}}, sink.Drain())
	assert.Equal(t, 0, e.StateSize())
}

func TestAggregate_OutOfOrderWithinWatermark(t *testing.T) {
	ctx := context.Background()
	e, sink := newSumEngine(t, "aggregate-ooo")

	// window 2 opens before window 1 has seen all its data, both stay open until the watermark passes them
	require.NoError(t, e.Process(ctx, event.New("a", hour+5, 100)))
	require.NoError(t, e.Process(ctx, event.New("a", hour+10, 1)))
	require.NoError(t, e.AdvanceWatermark(ctx, 2*hour))
	assert.Equal(t, []Result[string, int]{{Key: "a", Window: Window{hour, 2 * hour}, Value: 101}}, sink.Items())
}

func TestAggregate_LateValueEmitsPartialResult(t *testing.T) {
	ctx := context.Background()
	e, sink := newSumEngine(t, "aggregate-late")

	require.NoError(t, e.Process(ctx, event.New("a", 10, 1)))
	require.NoError(t, e.Process(ctx, event.New("a", hour+1, 1)))
	assert.Len(t, sink.Drain(), 1)

	require.NoError(t, e.Process(ctx, event.New("a", 20, 7)))
	assert.Equal(t, []Result[string, int]{{Key: "a", Window: Window{0, hour}, Value: 7}}, sink.Drain())
}

func TestReduceAll_MaxBy(t *testing.T) {
	ctx := context.Background()
	sink := memory.New[Result[string, int]]("reduce-all", 0)
	h := MaxBy[string, int](func(a, b int) bool { return a < b })
	e, err := engine.New[Window, Result[string, int], Result[string, int], Result[string, int]](ctx, h, sink, engine.WithName("reduce-all"), engine.WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)

	w1 := Window{0, hour}
	w2 := Window{hour, 2 * hour}
	for _, r := range []Result[string, int]{
		{Key: "a", Window: w1, Value: 3},
		{Key: "b", Window: w1, Value: 9},
		{Key: "c", Window: w1, Value: 9},
		{Key: "a", Window: w2, Value: 1},
	} {
		require.NoError(t, e.Process(ctx, event.New(r.Window, r.Window.MaxTimestamp(), r)))
	}
	require.NoError(t, e.AdvanceWatermark(ctx, hour))
	// ties keep the first result
	assert.Equal(t, []Result[string, int]{{Key: "b", Window: w1, Value: 9}}, sink.Drain())

	require.NoError(t, e.Flush(ctx))
	assert.Equal(t, []Result[string, int]{{Key: "a", Window: w2, Value: 1}}, sink.Drain())
}

func TestReduceAll_TimerWithoutStateIsNoop(t *testing.T) {
	h := MaxBy[string, int](func(a, b int) bool { return a < b })
	kc := &fakeContext[Result[string, int], Result[string, int]]{}
	assert.NoError(t, h.OnTimer(context.Background(), Window{0, hour}, hour, kc))
	assert.Empty(t, kc.emitted)
}

// fakeContext is an in-memory engine.Context for driving handlers directly.
type fakeContext[S, O any] struct {
	state    S
	hasState bool
	timers   []event.EventTime
	emitted  []O
}

func (f *fakeContext[S, O]) GetState() (S, bool)             { return f.state, f.hasState }
func (f *fakeContext[S, O]) SetState(s S)                    { f.state, f.hasState = s, true }
func (f *fakeContext[S, O]) ClearState()                     { var zero S; f.state, f.hasState = zero, false }
func (f *fakeContext[S, O]) RegisterTimer(t event.EventTime) { f.timers = append(f.timers, t) }
func (f *fakeContext[S, O]) CancelTimer(event.EventTime)     {}
func (f *fakeContext[S, O]) Emit(o O)                        { f.emitted = append(f.emitted, o) }

func TestAggregate_StateSnapshotIsStable(t *testing.T) {
	ctx := context.Background()
	e, sink := newSumEngine(t, "aggregate-snapshot")

	require.NoError(t, e.Process(ctx, event.New("a", 10, 1)))
	require.NoError(t, e.Process(ctx, event.New("a", 20, 2)))
	first, ok := e.State("a")
	require.True(t, ok)

	require.NoError(t, e.Process(ctx, event.New("a", 30, 4)))
	assert.Equal(t, Accumulators[int]{Window{0, hour}: 3}, first)
	second, ok := e.State("a")
	require.True(t, ok)
	assert.Equal(t, Accumulators[int]{Window{0, hour}: 7}, second)

	// opens the next window and fires the first one
	require.NoError(t, e.Process(ctx, event.New("a", hour+10, 5)))
	assert.Equal(t, []Result[string, int]{{Key: "a", Window: Window{0, hour}, Value: 7}}, sink.Drain())
	assert.Equal(t, Accumulators[int]{Window{0, hour}: 7}, second)
	third, ok := e.State("a")
	require.True(t, ok)
	assert.Equal(t, Accumulators[int]{Window{hour, 2 * hour}: 5}, third)
}
