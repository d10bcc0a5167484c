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

// Package shuffle maps keys onto a fixed number of partitions. The same key always lands on the same
// partition, which is what gives every key a single logical thread of control.
package shuffle

import (
	"encoding/binary"
	"fmt"

	"github.com/spaolacci/murmur3"
)

// Shuffle assigns keys to one of a fixed number of partitions.
type Shuffle[K comparable] struct {
	partitions uint64
}

// NewShuffle returns a Shuffle over n partitions. n below one is treated as one.
func NewShuffle[K comparable](n int) *Shuffle[K] {
	if n < 1 {
		n = 1
	}
	return &Shuffle[K]{partitions: uint64(n)}
}

// Partitions returns the number of partitions.
func (s *Shuffle[K]) Partitions() int {
	return int(s.partitions)
}

// Partition returns the partition index in [0, Partitions()) for key.
func (s *Shuffle[K]) Partition(key K) int {
	if s.partitions == 1 {
		return 0
	}
	return int(generateHash(key) % s.partitions)
}

func generateHash[K comparable](key K) uint64 {
	var buf [8]byte
	switch k := any(key).(type) {
	case string:
		return murmur3.Sum64([]byte(k))
	case int:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case int64:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case int32:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case uint:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case uint64:
		binary.LittleEndian.PutUint64(buf[:], k)
	case uint32:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case fmt.Stringer:
		return murmur3.Sum64([]byte(k.String()))
	default:
		return murmur3.Sum64([]byte(fmt.Sprintf("%v", k)))
	}
	return murmur3.Sum64(buf[:])
}
