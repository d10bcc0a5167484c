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

package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLookupEnvStringOr(t *testing.T) {
	assert.Equal(t, "hello", LookupEnvStringOr("KEYEDFLOW_FAKE_ENV", "hello"))
	t.Setenv("KEYEDFLOW_FAKE_ENV", "world")
	assert.Equal(t, "world", LookupEnvStringOr("KEYEDFLOW_FAKE_ENV", "hello"))
	t.Setenv("KEYEDFLOW_FAKE_ENV", "")
	assert.Equal(t, "hello", LookupEnvStringOr("KEYEDFLOW_FAKE_ENV", "hello"))
}

func TestLookupEnvBoolOr(t *testing.T) {
	assert.False(t, LookupEnvBoolOr("KEYEDFLOW_FAKE_BOOL", false))
	t.Setenv("KEYEDFLOW_FAKE_BOOL", "true")
	assert.True(t, LookupEnvBoolOr("KEYEDFLOW_FAKE_BOOL", false))
	t.Setenv("KEYEDFLOW_FAKE_BOOL", "maybe")
	assert.Panics(t, func() { LookupEnvBoolOr("KEYEDFLOW_FAKE_BOOL", false) })
}

func TestLookupEnvDurationOr(t *testing.T) {
	assert.Equal(t, time.Minute, LookupEnvDurationOr("KEYEDFLOW_FAKE_DURATION", time.Minute))
	t.Setenv("KEYEDFLOW_FAKE_DURATION", "2h")
	assert.Equal(t, 2*time.Hour, LookupEnvDurationOr("KEYEDFLOW_FAKE_DURATION", time.Minute))
	t.Setenv("KEYEDFLOW_FAKE_DURATION", "soon")
	assert.Panics(t, func() { LookupEnvDurationOr("KEYEDFLOW_FAKE_DURATION", time.Minute) })
}
