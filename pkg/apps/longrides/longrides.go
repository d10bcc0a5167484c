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

// Package longrides pairs the START and END events of taxi rides and raises an alert for every ride that has
// not ended within a timeout of its start.
package longrides

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/numaproj/keyedflow/pkg/engine"
	"github.com/numaproj/keyedflow/pkg/event"
	"github.com/numaproj/keyedflow/pkg/shared/logging"
	"github.com/numaproj/keyedflow/pkg/sinks"
	"github.com/numaproj/keyedflow/pkg/udferr"
)

// DefaultTimeout is how long a ride may run before it is reported.
const DefaultTimeout = 2 * time.Hour

// TaxiRide is either the START or the END event of a ride. Both events carry the ride's start time, END
// events also carry the end time.
type TaxiRide struct {
	RideID       int64           `json:"rideId"`
	IsStart      bool            `json:"isStart"`
	StartTime    event.EventTime `json:"startTime"`
	EndTime      event.EventTime `json:"endTime"`
	TaxiID       int64           `json:"taxiId"`
	DriverID     int64           `json:"driverId"`
	PassengerCnt int16           `json:"passengerCnt"`
	StartLon     float32         `json:"startLon"`
	StartLat     float32         `json:"startLat"`
	EndLon       float32         `json:"endLon"`
	EndLat       float32         `json:"endLat"`
}

// EventTime is the start time of a START event and the end time of an END event.
func (r TaxiRide) EventTime() event.EventTime {
	if r.IsStart {
		return r.StartTime
	}
	return r.EndTime
}

// ToEvent keys the ride by its id.
func (r TaxiRide) ToEvent() event.Event[int64, TaxiRide] {
	return event.New(r.RideID, r.EventTime(), r)
}

// Engine is an engine running the Matcher.
type Engine = engine.Engine[int64, TaxiRide, TaxiRide, TaxiRide]

// Matcher keeps at most one pending ride event per ride id. A START registers a timer at start+timeout;
// the matching END cancels it. When the timer fires the START is still unmatched and is emitted as an alert.
// ENDs may arrive before their START, in which case the END is kept until the START shows up.
type Matcher struct {
	timeout time.Duration
	log     *zap.SugaredLogger
}

var _ engine.Handler[int64, TaxiRide, TaxiRide, TaxiRide] = (*Matcher)(nil)

// NewMatcher returns a Matcher. The timeout must be positive.
func NewMatcher(ctx context.Context, timeout time.Duration) (*Matcher, error) {
	if timeout.Milliseconds() <= 0 {
		return nil, udferr.NewConfigError("timeout", timeout, "must be at least 1ms")
	}
	return &Matcher{timeout: timeout, log: logging.FromContext(ctx).With("handler", "longrides")}, nil
}

// NewEngine returns an engine running a Matcher with the given timeout, alerts are written to sink.
func NewEngine(ctx context.Context, timeout time.Duration, sink sinks.Sink[TaxiRide], opts ...engine.Option) (*Engine, error) {
	m, err := NewMatcher(ctx, timeout)
	if err != nil {
		return nil, err
	}
	return engine.New[int64, TaxiRide, TaxiRide, TaxiRide](ctx, m, sink, append([]engine.Option{engine.WithName("longrides")}, opts...)...)
}

func (m *Matcher) deadline(start TaxiRide) event.EventTime {
	return start.StartTime.Add(m.timeout)
}

func (m *Matcher) OnEvent(_ context.Context, ev event.Event[int64, TaxiRide], kc engine.Context[TaxiRide, TaxiRide]) error {
	ride := ev.Payload
	pending, ok := kc.GetState()
	if !ride.IsStart {
		switch {
		case !ok:
			// END before START
			kc.SetState(ride)
		case pending.IsStart:
			kc.CancelTimer(m.deadline(pending))
			kc.ClearState()
		default:
			m.log.Warnw("Duplicate END, keeping the latest", zap.Int64("rideId", ride.RideID))
			kc.SetState(ride)
		}
		return nil
	}

	if ok && !pending.IsStart {
		if pending.EndTime.Sub(ride.StartTime) > m.timeout {
			kc.Emit(ride)
		}
		kc.ClearState()
		return nil
	}
	if ok {
		m.log.Warnw("Duplicate START, replacing the pending one", zap.Int64("rideId", ride.RideID),
			zap.Int64("pendingStart", int64(pending.StartTime)), zap.Int64("start", int64(ride.StartTime)))
		kc.CancelTimer(m.deadline(pending))
	}
	kc.SetState(ride)
	kc.RegisterTimer(m.deadline(ride))
	return nil
}

// OnTimer emits the pending START. A timer whose START was matched or replaced in the meantime is ignored.
func (m *Matcher) OnTimer(_ context.Context, rideID int64, fireTime event.EventTime, kc engine.Context[TaxiRide, TaxiRide]) error {
	pending, ok := kc.GetState()
	if !ok || !pending.IsStart || m.deadline(pending) != fireTime {
		m.log.Debugw("Stale timer", zap.Int64("rideId", rideID), zap.Int64("fireTime", int64(fireTime)))
		return nil
	}
	kc.Emit(pending)
	kc.ClearState()
	return nil
}
