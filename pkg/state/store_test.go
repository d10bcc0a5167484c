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

package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pending struct {
	start int64
}

func TestStore_GetSetClear(t *testing.T) {
	s := NewStore[int64, pending](4)

	_, ok := s.Get(1)
	assert.False(t, ok)

	s.Set(1, pending{start: 10})
	v, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, int64(10), v.start)

	s.Set(1, pending{start: 20})
	v, _ = s.Get(1)
	assert.Equal(t, int64(20), v.start)
	assert.Equal(t, 1, s.Len())

	s.Clear(1)
	_, ok = s.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	// clearing again is a no-op
	s.Clear(1)
}

func TestStore_Isolation(t *testing.T) {
	s := NewStore[string, int](8)
	s.Set("a", 1)
	s.Set("b", 2)
	s.Clear("a")
	v, ok := s.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestStore_DefaultShards(t *testing.T) {
	s := NewStore[int, int](0)
	assert.Len(t, s.shards, DefaultShards)
}

func TestStore_ConcurrentDistinctKeys(t *testing.T) {
	s := NewStore[string, int](16)
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			key := fmt.Sprintf("driver-%d", g)
			for i := 0; i < 1000; i++ {
				v, _ := s.Get(key)
				s.Set(key, v+1)
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, 16, s.Len())
	for g := 0; g < 16; g++ {
		v, _ := s.Get(fmt.Sprintf("driver-%d", g))
		assert.Equal(t, 1000, v)
	}
}
