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

// Package window layers windowed aggregation on top of the engine's keyed state and timers. In the world of
// data processing on an unbounded stream, windowing groups data using temporal boundaries: event-time is used
// to discover the boundaries and the watermark to decide when the data within them is complete.
//
// Windowing is done in two steps:
//   - Assign: a WindowAssigner maps the event time to the window it belongs to.
//   - Aggregate: an Aggregator folds the values of a key into one accumulator per window. A timer at the end of
//     the window flushes the accumulator once the watermark passes it.
//
// Windows are truncated to the nearest multiple of their length (say, 1 hour windows start at the 0th minute),
// which keeps assignment constant time.
package window
