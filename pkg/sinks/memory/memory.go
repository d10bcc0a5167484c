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

package memory

import (
	"context"

	"github.com/numaproj/keyedflow/pkg/metrics"
	"github.com/numaproj/keyedflow/pkg/shared/queue"
	"github.com/numaproj/keyedflow/pkg/sinks"
)

// DefaultCapacity is the number of results kept when no capacity is given.
const DefaultCapacity = 10000

// Sink keeps the most recent results in memory. Older results overflow once capacity is reached.
type Sink[O any] struct {
	name  string
	items *queue.OverflowQueue[O]
}

var _ sinks.Sink[int] = (*Sink[int])(nil)

// New returns an in-memory sink holding up to capacity results.
func New[O any](name string, capacity int) *Sink[O] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Sink[O]{name: name, items: queue.New[O](capacity)}
}

func (s *Sink[O]) Write(_ context.Context, out O) error {
	metrics.SinkWriteCount.WithLabelValues(s.name).Inc()
	s.items.Append(out)
	return nil
}

// Items returns the retained results, oldest first.
func (s *Sink[O]) Items() []O {
	return s.items.Items()
}

// Drain returns the retained results and forgets them.
func (s *Sink[O]) Drain() []O {
	return s.items.Drain()
}

// Len returns the number of retained results.
func (s *Sink[O]) Len() int {
	return s.items.Length()
}

// Dropped returns how many results overflowed.
func (s *Sink[O]) Dropped() uint64 {
	return s.items.Dropped()
}
