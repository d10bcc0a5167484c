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

package window

import (
	"fmt"
	"time"

	"github.com/numaproj/keyedflow/pkg/event"
	"github.com/numaproj/keyedflow/pkg/udferr"
)

// Window is the half open interval [Start, End).
type Window struct {
	Start event.EventTime `json:"start"`
	End   event.EventTime `json:"end"`
}

// MaxTimestamp is the largest event time that belongs to the window.
func (w Window) MaxTimestamp() event.EventTime {
	return w.End - 1
}

func (w Window) String() string {
	return fmt.Sprintf("%d-%d", int64(w.Start), int64(w.End))
}

// Assigner maps an event time to the window it belongs to.
type Assigner interface {
	AssignWindow(ts event.EventTime) Window
}

// Tumbling assigns fixed size, non overlapping windows aligned to the epoch.
type Tumbling struct {
	// Length is the temporal length of the window.
	Length time.Duration
	length event.EventTime
}

var _ Assigner = (*Tumbling)(nil)

// NewTumbling returns a Tumbling assigner. Lengths below one millisecond are rejected.
func NewTumbling(length time.Duration) (*Tumbling, error) {
	if length.Milliseconds() <= 0 {
		return nil, udferr.NewConfigError("windowSize", length, "must be at least 1ms")
	}
	return &Tumbling{Length: length, length: event.EventTime(length.Milliseconds())}, nil
}

// AssignWindow follows the left inclusive, right exclusive principle: an event on a boundary belongs to the
// window starting at that boundary.
func (t *Tumbling) AssignWindow(ts event.EventTime) Window {
	offset := ts % t.length
	if offset < 0 {
		offset += t.length
	}
	start := ts - offset
	return Window{Start: start, End: start + t.length}
}
