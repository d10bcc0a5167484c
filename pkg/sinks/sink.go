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

// Package sinks defines where results emitted by engine callbacks end up.
package sinks

import "context"

// Sink receives results emitted by callbacks. Implementations must be safe for concurrent use, since
// callbacks for different keys run in parallel.
type Sink[O any] interface {
	Write(ctx context.Context, out O) error
}

// Func adapts a function to Sink.
type Func[O any] func(ctx context.Context, out O) error

func (f Func[O]) Write(ctx context.Context, out O) error {
	return f(ctx, out)
}

// Tee writes every result to all the given sinks, stopping at the first error.
func Tee[O any](sinks ...Sink[O]) Sink[O] {
	return Func[O](func(ctx context.Context, out O) error {
		for _, s := range sinks {
			if err := s.Write(ctx, out); err != nil {
				return err
			}
		}
		return nil
	})
}
