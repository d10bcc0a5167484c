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

// Package engine implements a single process event-time keyed processing engine. Every key owns isolated
// mutable state and a set of event-time timers. Events are dispatched to a Handler together with a Context
// scoped to the event's key; the watermark, derived from the observed event timestamps, drives the firing of
// due timers in ascending fire time order.
//
// Processing an event happens in two phases:
//   - Ingest: under the key's execution lock the watermark observes the event timestamp and OnEvent is invoked.
//   - Drain: every timer due at the current watermark is popped and OnTimer is invoked under the timer key's
//     execution lock. Timers registered during the drain that are already due fire before the drain completes.
//
// Callbacks for the same key never run concurrently. Callbacks for different keys may run in parallel when
// the engine is driven from several goroutines, see package runner.
package engine
