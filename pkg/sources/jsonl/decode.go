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

// Package jsonl reads newline delimited JSON records.
package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/numaproj/keyedflow/pkg/metrics"
)

// MaxLineSize is the longest line Decode accepts.
const MaxLineSize = 1024 * 1024

// Decode reads r line by line, decodes every non-blank line into a T and hands it to fn. Decoding stops at the
// first error, at the end of r or when ctx is done.
func Decode[T any](ctx context.Context, name string, r io.Reader, fn func(context.Context, T) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			metrics.SourceReadErrorCount.WithLabelValues(name).Inc()
			return fmt.Errorf("failed to decode line %d: %w", line, err)
		}
		metrics.SourceReadCount.WithLabelValues(name).Inc()
		if err := fn(ctx, record); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read line %d: %w", line+1, err)
	}
	return nil
}

// Stream decodes r like Decode and sends every record, converted by convert, to the returned channel. The
// channel is closed when decoding ends; the decoding error, if any, is then delivered on the error channel.
func Stream[T, E any](ctx context.Context, name string, r io.Reader, convert func(T) E) (<-chan E, <-chan error) {
	out := make(chan E)
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		defer close(out)
		errCh <- Decode(ctx, name, r, func(ctx context.Context, record T) error {
			select {
			case out <- convert(record):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return out, errCh
}
