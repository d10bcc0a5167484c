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

package udferr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackError(t *testing.T) {
	cause := errors.New("boom")
	assert.Nil(t, NewCallbackError(OnEvent, 1, 10, nil))

	err := NewCallbackError(OnTimer, int64(3), 7200000, cause)
	assert.EqualError(t, err, "OnTimer failed for key 3 at 7200000: boom")
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("step: %w", err)
	ce, ok := FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, OnTimer, ce.Op)
	assert.Equal(t, int64(3), ce.Key)

	_, ok = FromError(cause)
	assert.False(t, ok)
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("timeout", "0s", "must be positive")
	assert.EqualError(t, err, "invalid configuration timeout=0s: must be positive")
	assert.True(t, IsConfigError(fmt.Errorf("wrap: %w", err)))
	assert.False(t, IsConfigError(errors.New("other")))
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "OnEvent", OnEvent.String())
	assert.Equal(t, "Emit", Emit.String())
	assert.Equal(t, "Unknown", Op(42).String())
}
