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

package shuffle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type windowKey struct {
	start, end int64
}

func TestShuffle_Partition(t *testing.T) {
	tests := []struct {
		name       string
		partitions int
		keys       int
	}{
		{name: "KeyCountGreaterThanPartitionCount", partitions: 5, keys: 10000},
		{name: "PartitionCountGreaterThanKeyCount", partitions: 100, keys: 10},
		{name: "SinglePartition", partitions: 1, keys: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewShuffle[string](tt.partitions)
			assert.Equal(t, tt.partitions, s.Partitions())
			for i := 0; i < tt.keys; i++ {
				p := s.Partition(fmt.Sprintf("key_%d", i))
				assert.GreaterOrEqual(t, p, 0)
				assert.Less(t, p, tt.partitions)
			}
		})
	}
}

func TestShuffle_Stable(t *testing.T) {
	s := NewShuffle[int64](16)
	for i := int64(0); i < 1000; i++ {
		assert.Equal(t, s.Partition(i), s.Partition(i))
	}
	ws := NewShuffle[windowKey](16)
	assert.Equal(t, ws.Partition(windowKey{0, 3600}), ws.Partition(windowKey{0, 3600}))
}

func TestShuffle_Spread(t *testing.T) {
	s := NewShuffle[int64](8)
	seen := make(map[int]int)
	for i := int64(0); i < 8000; i++ {
		seen[s.Partition(i)]++
	}
	assert.Len(t, seen, 8)
	for _, c := range seen {
		assert.Greater(t, c, 500)
	}
}

func TestNewShuffle_NonPositive(t *testing.T) {
	s := NewShuffle[string](0)
	assert.Equal(t, 1, s.Partitions())
	assert.Equal(t, 0, s.Partition("anything"))
}
