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

package blackhole

import (
	"context"

	"github.com/numaproj/keyedflow/pkg/metrics"
	"github.com/numaproj/keyedflow/pkg/sinks"
)

// Blackhole is a sink to emulate /dev/null
type Blackhole[O any] struct {
	name string
}

var _ sinks.Sink[int] = (*Blackhole[int])(nil)

// NewBlackhole returns a new Blackhole sink.
func NewBlackhole[O any](name string) *Blackhole[O] {
	return &Blackhole[O]{name: name}
}

// Write counts and discards the result.
func (b *Blackhole[O]) Write(_ context.Context, _ O) error {
	metrics.SinkWriteCount.WithLabelValues(b.name).Inc()
	return nil
}
