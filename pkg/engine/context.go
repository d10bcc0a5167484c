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
	"go.uber.org/zap"

	"github.com/numaproj/keyedflow/pkg/event"
)

// keyedContext implements Context for one invocation of one key.
type keyedContext[K comparable, P, S, O any] struct {
	engine  *Engine[K, P, S, O]
	key     K
	emitted []O
}

var _ Context[int, int] = (*keyedContext[string, int, int, int])(nil)

func (c *keyedContext[K, P, S, O]) GetState() (S, bool) {
	return c.engine.store.Get(c.key)
}

func (c *keyedContext[K, P, S, O]) SetState(s S) {
	c.engine.store.Set(c.key, s)
}

func (c *keyedContext[K, P, S, O]) ClearState() {
	c.engine.store.Clear(c.key)
}

func (c *keyedContext[K, P, S, O]) RegisterTimer(fireTime event.EventTime) {
	c.engine.timers.Register(c.key, fireTime)
	c.engine.metrics.timersRegistered.Inc()
	if wm := c.engine.tracker.Current(); wm.Covers(fireTime) {
		c.engine.log.Debugw("Timer registered behind the watermark, due now", zap.Any("key", c.key), zap.Int64("fireTime", int64(fireTime)), zap.String("watermark", wm.String()))
	}
}

func (c *keyedContext[K, P, S, O]) CancelTimer(fireTime event.EventTime) {
	if c.engine.timers.Cancel(c.key, fireTime) {
		c.engine.metrics.timersCancelled.Inc()
	}
}

func (c *keyedContext[K, P, S, O]) Emit(out O) {
	c.emitted = append(c.emitted, out)
}
