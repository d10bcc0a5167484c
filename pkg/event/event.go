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

// Package event defines the data model shared by the engine and its applications: event time,
// keyed events and event-time timers.
package event

import (
	"math"
	"time"
)

// EventTime is the timestamp embedded in an event, milliseconds since the Unix epoch.
type EventTime int64

const (
	// MinEventTime sorts before every real timestamp.
	MinEventTime EventTime = math.MinInt64
	// MaxEventTime sorts after every real timestamp; advancing to it closes the stream.
	MaxEventTime EventTime = math.MaxInt64
)

// FromTime converts a wall-clock time to EventTime.
func FromTime(t time.Time) EventTime {
	return EventTime(t.UnixMilli())
}

// Time returns the EventTime as a UTC time.Time.
func (t EventTime) Time() time.Time {
	return time.UnixMilli(int64(t)).UTC()
}

// Add returns t+d, saturating at MaxEventTime and MinEventTime.
func (t EventTime) Add(d time.Duration) EventTime {
	ms := d.Milliseconds()
	switch {
	case ms > 0 && t > MaxEventTime-EventTime(ms):
		return MaxEventTime
	case ms < 0 && t < MinEventTime-EventTime(ms):
		return MinEventTime
	}
	return t + EventTime(ms)
}

// Sub returns the duration t-u.
func (t EventTime) Sub(u EventTime) time.Duration {
	return time.Duration(t-u) * time.Millisecond
}

func (t EventTime) String() string {
	switch t {
	case MinEventTime:
		return "-inf"
	case MaxEventTime:
		return "+inf"
	}
	return t.Time().Format(time.RFC3339Nano)
}

// Event is a keyed record with its event time. Events are immutable once ingested.
type Event[K comparable, P any] struct {
	Key       K
	Timestamp EventTime
	Payload   P
}

// New builds an Event.
func New[K comparable, P any](key K, ts EventTime, payload P) Event[K, P] {
	return Event[K, P]{Key: key, Timestamp: ts, Payload: payload}
}

// Timer is an event-time timer owned by one key.
type Timer[K comparable] struct {
	Key      K
	FireTime EventTime
}
