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

package queue

import "sync"

// OverflowQueue is a thread safe FIFO with a max size. Once full, appending evicts the oldest element.
// Elements are kept in a ring so eviction does not shift the backing slice.
type OverflowQueue[T any] struct {
	elements []T
	head     int
	size     int
	dropped  uint64
	lock     *sync.RWMutex
}

func New[T any](size int) *OverflowQueue[T] {
	if size <= 0 {
		size = 1
	}
	return &OverflowQueue[T]{
		elements: make([]T, size),
		lock:     new(sync.RWMutex),
	}
}

// Append adds an element to the queue, evicting the oldest one if the queue is full.
func (q *OverflowQueue[T]) Append(value T) {
	q.lock.Lock()
	defer q.lock.Unlock()
	tail := (q.head + q.size) % len(q.elements)
	q.elements[tail] = value
	if q.size < len(q.elements) {
		q.size++
		return
	}
	q.head = (q.head + 1) % len(q.elements)
	q.dropped++
}

// Items returns a copy of the elements in the queue, oldest first.
func (q *OverflowQueue[T]) Items() []T {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return q.items()
}

// ReversedItems returns a copy of the elements in the queue, newest first.
func (q *OverflowQueue[T]) ReversedItems() []T {
	r := q.Items()
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return r
}

// Drain returns the elements oldest first and empties the queue.
func (q *OverflowQueue[T]) Drain() []T {
	q.lock.Lock()
	defer q.lock.Unlock()
	r := q.items()
	var zero T
	for i := range q.elements {
		q.elements[i] = zero
	}
	q.head, q.size = 0, 0
	return r
}

// Length returns the current length of the queue
func (q *OverflowQueue[T]) Length() int {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return q.size
}

// Dropped returns how many elements were evicted because the queue was full.
func (q *OverflowQueue[T]) Dropped() uint64 {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return q.dropped
}

func (q *OverflowQueue[T]) items() []T {
	r := make([]T, q.size)
	for i := 0; i < q.size; i++ {
		r[i] = q.elements[(q.head+i)%len(q.elements)]
	}
	return r
}
