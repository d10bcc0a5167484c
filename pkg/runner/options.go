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

package runner

import (
	"go.uber.org/zap"

	"github.com/numaproj/keyedflow/pkg/udferr"
)

type options struct {
	// workers is the number of goroutines processing events
	workers int
	// bufferSize is the capacity of each worker's inbox
	bufferSize int
	// flush tells whether the processor is flushed once the input is exhausted
	flush  bool
	name   string
	logger *zap.SugaredLogger
}

// DefaultOptions returns the default runner options.
func DefaultOptions() *options {
	return &options{
		workers:    4,
		bufferSize: 128,
		flush:      true,
		name:       "runner",
	}
}

// Option to apply different options
type Option func(*options) error

// WithWorkers sets the number of workers.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return udferr.NewConfigError("workers", n, "must be positive")
		}
		o.workers = n
		return nil
	}
}

// WithBufferSize sets the inbox capacity of each worker.
func WithBufferSize(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return udferr.NewConfigError("bufferSize", n, "must not be negative")
		}
		o.bufferSize = n
		return nil
	}
}

// WithFlushOnEnd sets whether the processor is flushed at the end of the input.
func WithFlushOnEnd(flush bool) Option {
	return func(o *options) error {
		o.flush = flush
		return nil
	}
}

// WithName sets the name used in logs and metrics.
func WithName(name string) Option {
	return func(o *options) error {
		o.name = name
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}
