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

package watermark

import (
	"go.uber.org/atomic"

	"github.com/numaproj/keyedflow/pkg/event"
)

// Tracker derives the watermark from observed event timestamps: it is the maximum timestamp seen so far.
// It is safe for concurrent use and never regresses, an observation behind the current watermark is a late
// event and leaves it untouched.
type Tracker struct {
	current *atomic.Int64
}

// NewTracker returns a Tracker positioned at InitialWatermark.
func NewTracker() *Tracker {
	return &Tracker{current: atomic.NewInt64(int64(InitialWatermark))}
}

// Observe offers ts as a watermark candidate. It reports whether the watermark advanced.
func (t *Tracker) Observe(ts event.EventTime) bool {
	for {
		cur := t.current.Load()
		if int64(ts) <= cur {
			return false
		}
		if t.current.CompareAndSwap(cur, int64(ts)) {
			return true
		}
	}
}

// IsLate reports whether ts is strictly behind the current watermark.
func (t *Tracker) IsLate(ts event.EventTime) bool {
	return t.Current().Passed(ts)
}

// Current returns the latest committed watermark.
func (t *Tracker) Current() Watermark {
	return Watermark(t.current.Load())
}
