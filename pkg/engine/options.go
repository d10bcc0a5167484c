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

	"github.com/numaproj/keyedflow/pkg/state"
	"github.com/numaproj/keyedflow/pkg/udferr"
)

type options struct {
	// name labels metrics and logs of the engine
	name string
	// shards is the number of execution lock and state shards
	shards int
	// logger overrides the logger taken from the context
	logger *zap.SugaredLogger
	// externalWatermark stops Process from moving the watermark, only AdvanceWatermark does
	externalWatermark bool
}

func DefaultOptions() *options {
	return &options{
		name:   "default",
		shards: state.DefaultShards,
	}
}

type Option func(*options) error

// WithName sets the engine name used in metrics and logs
func WithName(name string) Option {
	return func(o *options) error {
		if name == "" {
			return udferr.NewConfigError("name", name, "must not be empty")
		}
		o.name = name
		return nil
	}
}

// WithShards sets the number of key shards. Keys of different shards are processed in parallel.
func WithShards(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return udferr.NewConfigError("shards", n, "must be positive")
		}
		o.shards = n
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) error {
		o.logger = log
		return nil
	}
}

// WithExternalWatermark makes AdvanceWatermark the only way to move the watermark. Event timestamps are then
// used for late detection only. Use it when the caller knows the progress of the input better than the
// largest timestamp seen, e.g. when events are processed by several workers.
func WithExternalWatermark() Option {
	return func(o *options) error {
		o.externalWatermark = true
		return nil
	}
}
