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

// Package jsonl writes results as newline delimited JSON.
package jsonl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/goccy/go-json"

	"github.com/numaproj/keyedflow/pkg/metrics"
	"github.com/numaproj/keyedflow/pkg/sinks"
)

// Writer encodes each result as one JSON line.
type Writer[O any] struct {
	name string
	w    *bufio.Writer
	enc  *json.Encoder
	lock sync.Mutex
}

var _ sinks.Sink[int] = (*Writer[int])(nil)

// NewWriter returns a Writer on top of w.
func NewWriter[O any](name string, w io.Writer) *Writer[O] {
	bw := bufio.NewWriter(w)
	return &Writer[O]{name: name, w: bw, enc: json.NewEncoder(bw)}
}

// Write encodes out and flushes the line.
func (j *Writer[O]) Write(_ context.Context, out O) error {
	j.lock.Lock()
	defer j.lock.Unlock()
	if err := j.enc.Encode(out); err != nil {
		metrics.SinkWriteErrorCount.WithLabelValues(j.name).Inc()
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := j.w.Flush(); err != nil {
		metrics.SinkWriteErrorCount.WithLabelValues(j.name).Inc()
		return fmt.Errorf("failed to flush result: %w", err)
	}
	metrics.SinkWriteCount.WithLabelValues(j.name).Inc()
	return nil
}
