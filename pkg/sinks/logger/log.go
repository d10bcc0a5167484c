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

package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/numaproj/keyedflow/pkg/metrics"
	"github.com/numaproj/keyedflow/pkg/shared/logging"
	"github.com/numaproj/keyedflow/pkg/sinks"
)

// ToLog prints every result to a structured log.
type ToLog[O any] struct {
	name   string
	logger *zap.SugaredLogger
}

var _ sinks.Sink[int] = (*ToLog[int])(nil)

type Option[O any] func(*ToLog[O])

func WithLogger[O any](log *zap.SugaredLogger) Option[O] {
	return func(t *ToLog[O]) {
		t.logger = log
	}
}

// NewToLog returns ToLog type.
func NewToLog[O any](ctx context.Context, name string, opts ...Option[O]) *ToLog[O] {
	t := &ToLog[O]{name: name}
	for _, o := range opts {
		o(t)
	}
	if t.logger == nil {
		t.logger = logging.FromContext(ctx)
	}
	t.logger = t.logger.With("sink", name)
	return t
}

// Write writes to the log.
func (t *ToLog[O]) Write(_ context.Context, out O) error {
	metrics.SinkWriteCount.WithLabelValues(t.name).Inc()
	t.logger.Infow("Result", zap.Any("payload", out))
	return nil
}
