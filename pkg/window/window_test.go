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

package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/keyedflow/pkg/event"
	"github.com/numaproj/keyedflow/pkg/udferr"
)

func TestTumbling_AssignWindow(t *testing.T) {
	baseTime := event.FromTime(time.Unix(1651129201, 0))

	tests := []struct {
		name      string
		length    time.Duration
		eventTime event.EventTime
		want      Window
	}{
		{
			name:      "minute",
			length:    time.Minute,
			eventTime: baseTime,
			want:      Window{Start: 1651129200000, End: 1651129260000},
		},
		{
			name:      "hour",
			length:    time.Hour,
			eventTime: baseTime,
			want:      Window{Start: 1651129200000, End: 1651129200000 + 3600000},
		},
		{
			name:      "5_minute",
			length:    time.Minute * 5,
			eventTime: baseTime,
			want:      Window{Start: 1651129200000, End: 1651129200000 + 300000},
		},
		{
			name:      "30_second",
			length:    time.Second * 30,
			eventTime: baseTime,
			want:      Window{Start: 1651129200000, End: 1651129230000},
		},
		{
			name:      "boundary_belongs_to_next_window",
			length:    time.Hour,
			eventTime: 3600000,
			want:      Window{Start: 3600000, End: 7200000},
		},
		{
			name:      "last_millisecond",
			length:    time.Hour,
			eventTime: 3599999,
			want:      Window{Start: 0, End: 3600000},
		},
		{
			name:      "before_epoch",
			length:    time.Hour,
			eventTime: -1,
			want:      Window{Start: -3600000, End: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw, err := NewTumbling(tt.length)
			require.NoError(t, err)
			got := tw.AssignWindow(tt.eventTime)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, tt.eventTime, got.Start)
			assert.Less(t, tt.eventTime, got.End)
		})
	}
}

func TestNewTumbling_Invalid(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Hour, time.Microsecond} {
		_, err := NewTumbling(d)
		assert.True(t, udferr.IsConfigError(err), d.String())
	}
}

func TestWindow(t *testing.T) {
	w := Window{Start: 0, End: 3600000}
	assert.Equal(t, event.EventTime(3599999), w.MaxTimestamp())
	assert.Equal(t, "0-3600000", w.String())
}

func TestAggregators(t *testing.T) {
	s := SumBy(func(v float32) float32 { return v })
	acc := s.CreateAccumulator()
	for _, v := range []float32{1.5, 2.5, 3} {
		acc = s.Add(v, acc)
	}
	assert.Equal(t, float32(7), acc)
}
