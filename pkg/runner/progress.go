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
	"sync"

	"github.com/numaproj/keyedflow/pkg/event"
)

// progress computes the low watermark of a set of workers. Every dispatched event is stamped with the
// largest timestamp dispatched before it. A worker holding unprocessed events may still see timestamps down
// to the stamp of its oldest one, so the low watermark is the smallest such stamp, or the largest timestamp
// dispatched when every worker is idle.
type progress struct {
	lock sync.Mutex
	// source is the largest timestamp dispatched so far
	source event.EventTime
	// pending holds the stamps of the unprocessed events of each worker in dispatch order
	pending [][]event.EventTime
}

func newProgress(workers int) *progress {
	return &progress{
		source:  event.MinEventTime,
		pending: make([][]event.EventTime, workers),
	}
}

// dispatched records an event with timestamp ts handed to worker. It must be called before the event is
// sent so the worker never processes an unrecorded event.
func (p *progress) dispatched(worker int, ts event.EventTime) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.pending[worker] = append(p.pending[worker], p.source)
	if ts > p.source {
		p.source = ts
	}
}

// processed records that worker finished its oldest event and returns the new low watermark.
func (p *progress) processed(worker int) event.EventTime {
	p.lock.Lock()
	defer p.lock.Unlock()
	if q := p.pending[worker]; len(q) > 0 {
		p.pending[worker] = q[1:]
	}
	return p.low()
}

func (p *progress) low() event.EventTime {
	wm := p.source
	for _, q := range p.pending {
		if len(q) > 0 && q[0] < wm {
			wm = q[0]
		}
	}
	return wm
}
