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

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSink(t *testing.T) {
	ctx := context.Background()
	s := New[int]("memory-test", 2)
	assert.NoError(t, s.Write(ctx, 1))
	assert.NoError(t, s.Write(ctx, 2))
	assert.NoError(t, s.Write(ctx, 3))
	assert.Equal(t, []int{2, 3}, s.Items())
	assert.Equal(t, uint64(1), s.Dropped())
	assert.Equal(t, []int{2, 3}, s.Drain())
	assert.Equal(t, 0, s.Len())
}

func TestSink_DefaultCapacity(t *testing.T) {
	s := New[string]("memory-default", 0)
	for i := 0; i < DefaultCapacity; i++ {
		_ = s.Write(context.Background(), "x")
	}
	assert.Equal(t, DefaultCapacity, s.Len())
	assert.Equal(t, uint64(0), s.Dropped())
}
