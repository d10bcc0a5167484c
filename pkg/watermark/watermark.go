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

// Package watermark tracks event-time progress. A watermark is the assertion that no further event
// with a timestamp below it will arrive; it only ever moves forward.
package watermark

import (
	"github.com/numaproj/keyedflow/pkg/event"
)

// Watermark is the monotonically increasing event-time lower bound.
type Watermark event.EventTime

var (
	// InitialWatermark is the watermark before any event has been observed.
	InitialWatermark = Watermark(event.MinEventTime)
	// MaxWatermark is published at the end of a bounded input, it makes every timer due.
	MaxWatermark = Watermark(event.MaxEventTime)
)

func (w Watermark) String() string {
	return event.EventTime(w).String()
}

// EventTime returns the watermark as an event time.
func (w Watermark) EventTime() event.EventTime {
	return event.EventTime(w)
}

// Covers reports whether an event-time timer at ts is due under this watermark.
func (w Watermark) Covers(ts event.EventTime) bool {
	return ts <= event.EventTime(w)
}

// Passed reports whether an event at ts arrives after the watermark moved beyond it.
func (w Watermark) Passed(ts event.EventTime) bool {
	return ts < event.EventTime(w)
}
