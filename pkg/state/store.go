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

// Package state holds keyed state: at most one value per key, isolated per key, kept in memory until it is
// explicitly cleared.
package state

import (
	"sync"

	"github.com/numaproj/keyedflow/pkg/shuffle"
)

// DefaultShards is the shard count used when none is given.
const DefaultShards = 64

// Store is a sharded map from key to state value. Keys in different shards never contend on a lock.
type Store[K comparable, S any] struct {
	shuffle *shuffle.Shuffle[K]
	shards  []*shard[K, S]
}

type shard[K comparable, S any] struct {
	values map[K]S
	lock   sync.RWMutex
}

// NewStore returns a Store with n shards.
func NewStore[K comparable, S any](n int) *Store[K, S] {
	if n < 1 {
		n = DefaultShards
	}
	s := &Store[K, S]{
		shuffle: shuffle.NewShuffle[K](n),
		shards:  make([]*shard[K, S], n),
	}
	for i := range s.shards {
		s.shards[i] = &shard[K, S]{values: make(map[K]S)}
	}
	return s
}

func (s *Store[K, S]) shardFor(key K) *shard[K, S] {
	return s.shards[s.shuffle.Partition(key)]
}

// Get returns the state of key and whether it exists.
func (s *Store[K, S]) Get(key K) (S, bool) {
	sh := s.shardFor(key)
	sh.lock.RLock()
	defer sh.lock.RUnlock()
	v, ok := sh.values[key]
	return v, ok
}

// Set replaces the state of key.
func (s *Store[K, S]) Set(key K, value S) {
	sh := s.shardFor(key)
	sh.lock.Lock()
	defer sh.lock.Unlock()
	sh.values[key] = value
}

// Clear removes the state of key. Clearing an absent key is a no-op.
func (s *Store[K, S]) Clear(key K) {
	sh := s.shardFor(key)
	sh.lock.Lock()
	defer sh.lock.Unlock()
	delete(sh.values, key)
}

// Len returns the number of keys holding state.
func (s *Store[K, S]) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.lock.RLock()
		n += len(sh.values)
		sh.lock.RUnlock()
	}
	return n
}
