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

// Package timer implements the event-time timer queue shared by every key of an engine.
package timer

import (
	"sync"

	"github.com/google/btree"

	"github.com/numaproj/keyedflow/pkg/event"
)

const degree = 32

// Queue is a time ordered set of (key, fireTime) timers. Timers are ordered by fire time, ties are broken by
// registration order. Insert, cancel and pop are O(log n). Queue is safe for concurrent use.
type Queue[K comparable] struct {
	tree  *btree.BTreeG[*entry[K]]
	index map[event.Timer[K]][]*entry[K]
	seq   uint64
	lock  sync.Mutex
}

type entry[K comparable] struct {
	timer event.Timer[K]
	seq   uint64
}

func less[K comparable](a, b *entry[K]) bool {
	if a.timer.FireTime != b.timer.FireTime {
		return a.timer.FireTime < b.timer.FireTime
	}
	return a.seq < b.seq
}

// NewQueue returns an empty Queue.
func NewQueue[K comparable]() *Queue[K] {
	return &Queue[K]{
		tree:  btree.NewG[*entry[K]](degree, less[K]),
		index: make(map[event.Timer[K]][]*entry[K]),
	}
}

// Register adds a timer. Registering the same (key, fireTime) twice yields two timers.
func (q *Queue[K]) Register(key K, fireTime event.EventTime) {
	q.lock.Lock()
	defer q.lock.Unlock()
	id := event.Timer[K]{Key: key, FireTime: fireTime}
	e := &entry[K]{timer: id, seq: q.seq}
	q.seq++
	q.tree.ReplaceOrInsert(e)
	q.index[id] = append(q.index[id], e)
}

// Cancel removes the earliest registered timer matching (key, fireTime). It reports whether one was removed;
// cancelling a timer that already fired or never existed is a normal no-op.
func (q *Queue[K]) Cancel(key K, fireTime event.EventTime) bool {
	q.lock.Lock()
	defer q.lock.Unlock()
	id := event.Timer[K]{Key: key, FireTime: fireTime}
	entries := q.index[id]
	if len(entries) == 0 {
		return false
	}
	q.tree.Delete(entries[0])
	q.unindex(entries[0])
	return true
}

// PopNext removes and returns the earliest timer if it is due at watermark wm.
func (q *Queue[K]) PopNext(wm event.EventTime) (event.Timer[K], bool) {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.popNext(wm)
}

// PopDue removes and returns every timer with fireTime <= wm, ascending by fire time then registration order.
func (q *Queue[K]) PopDue(wm event.EventTime) []event.Timer[K] {
	q.lock.Lock()
	defer q.lock.Unlock()
	var due []event.Timer[K]
	for {
		t, ok := q.popNext(wm)
		if !ok {
			return due
		}
		due = append(due, t)
	}
}

// Peek returns the fire time of the earliest timer.
func (q *Queue[K]) Peek() (event.EventTime, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()
	e, ok := q.tree.Min()
	if !ok {
		return 0, false
	}
	return e.timer.FireTime, true
}

// Len returns the number of outstanding timers.
func (q *Queue[K]) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.tree.Len()
}

func (q *Queue[K]) popNext(wm event.EventTime) (event.Timer[K], bool) {
	e, ok := q.tree.Min()
	if !ok || e.timer.FireTime > wm {
		return event.Timer[K]{}, false
	}
	q.tree.DeleteMin()
	q.unindex(e)
	return e.timer, true
}

func (q *Queue[K]) unindex(e *entry[K]) {
	entries := q.index[e.timer]
	for i, x := range entries {
		if x == e {
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(entries) == 0 {
		delete(q.index, e.timer)
		return
	}
	q.index[e.timer] = entries
}
