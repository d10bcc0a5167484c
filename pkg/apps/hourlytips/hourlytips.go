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

// Package hourlytips computes, for every hour, the driver who received the most tips. Tips are summed per
// driver in tumbling windows by a first engine; a second engine keyed by window keeps the largest sum.
package hourlytips

import (
	"context"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/numaproj/keyedflow/pkg/engine"
	"github.com/numaproj/keyedflow/pkg/event"
	"github.com/numaproj/keyedflow/pkg/shared/logging"
	"github.com/numaproj/keyedflow/pkg/sinks"
	"github.com/numaproj/keyedflow/pkg/window"
)

// DefaultWindowSize is the length of the tumbling windows tips are summed over.
const DefaultWindowSize = time.Hour

// TaxiFare is the fare of one ride.
type TaxiFare struct {
	RideID      int64           `json:"rideId"`
	TaxiID      int64           `json:"taxiId"`
	DriverID    int64           `json:"driverId"`
	StartTime   event.EventTime `json:"startTime"`
	PaymentType string          `json:"paymentType"`
	Tip         float32         `json:"tip"`
	Tolls       float32         `json:"tolls"`
	TotalFare   float32         `json:"totalFare"`
}

// ToEvent keys the fare by its driver.
func (f TaxiFare) ToEvent() event.Event[int64, TaxiFare] {
	return event.New(f.DriverID, f.StartTime, f)
}

// HourlyMax is the driver with the highest tip total of the window ending at WindowEnd.
type HourlyMax struct {
	WindowEnd event.EventTime `json:"windowEnd"`
	DriverID  int64           `json:"driverId"`
	TotalTips float32         `json:"totalTips"`
}

type (
	driverTotal = window.Result[int64, float32]
	sumEngine   = engine.Engine[int64, TaxiFare, window.Accumulators[float32], driverTotal]
	maxEngine   = engine.Engine[window.Window, driverTotal, driverTotal, driverTotal]
)

// bridge collects the totals emitted by the first stage until they are forwarded.
type bridge struct {
	lock   sync.Mutex
	totals []driverTotal
}

func (b *bridge) Write(_ context.Context, out driverTotal) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.totals = append(b.totals, out)
	return nil
}

func (b *bridge) take() []driverTotal {
	b.lock.Lock()
	defer b.lock.Unlock()
	out := b.totals
	b.totals = nil
	return out
}

// Pipeline chains the two engines. The second engine's watermark follows the first one's, so a window's
// maximum fires as soon as every driver total of that window has been forwarded.
type Pipeline struct {
	lock   sync.Mutex
	sums   *sumEngine
	max    *maxEngine
	bridge *bridge
	log    *zap.SugaredLogger
}

// NewPipeline returns a Pipeline summing tips over windows of the given size and writing one HourlyMax per
// window to sink.
func NewPipeline(ctx context.Context, size time.Duration, sink sinks.Sink[HourlyMax], opts ...engine.Option) (*Pipeline, error) {
	tumbling, err := window.NewTumbling(size)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{bridge: &bridge{}, log: logging.FromContext(ctx).With("pipeline", "hourlytips")}

	sumOpts := append([]engine.Option{engine.WithName("hourlytips-sum")}, opts...)
	tips := window.NewAggregate[int64](tumbling, window.SumBy(func(f TaxiFare) float32 { return f.Tip }))
	if p.sums, err = engine.New[int64, TaxiFare, window.Accumulators[float32], driverTotal](ctx, tips, p.bridge, sumOpts...); err != nil {
		return nil, err
	}

	var out sinks.Sink[driverTotal]
	if sink != nil {
		out = sinks.Func[driverTotal](func(ctx context.Context, r driverTotal) error {
			return sink.Write(ctx, HourlyMax{WindowEnd: r.Window.End, DriverID: r.Key, TotalTips: r.Value})
		})
	}
	maxOpts := append([]engine.Option{engine.WithName("hourlytips-max")}, opts...)
	best := window.MaxBy[int64](func(a, b float32) bool { return a < b })
	if p.max, err = engine.New[window.Window, driverTotal, driverTotal, driverTotal](ctx, best, out, maxOpts...); err != nil {
		return nil, err
	}
	return p, nil
}

// Process sums the fare's tip into its driver's window and forwards every window total that became final.
func (p *Pipeline) Process(ctx context.Context, ev event.Event[int64, TaxiFare]) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	err := p.sums.Process(ctx, ev)
	return multierr.Append(err, p.forward(ctx))
}

// AdvanceWatermark moves both stages to wm.
func (p *Pipeline) AdvanceWatermark(ctx context.Context, wm event.EventTime) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	err := p.sums.AdvanceWatermark(ctx, wm)
	return multierr.Append(err, p.forward(ctx))
}

// Flush closes every open window of both stages.
func (p *Pipeline) Flush(ctx context.Context) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.log.Infow("Flushing pipeline", zap.Int("openDrivers", p.sums.StateSize()))
	err := p.sums.Flush(ctx)
	err = multierr.Append(err, p.forward(ctx))
	return multierr.Append(err, p.max.Flush(ctx))
}

// Watermark returns the watermark of the first stage.
func (p *Pipeline) Watermark() event.EventTime {
	return p.sums.Watermark().EventTime()
}

// forward feeds the collected driver totals into the second stage, stamped with the last instant of their
// window, then moves the second stage's watermark up to the first stage's.
func (p *Pipeline) forward(ctx context.Context) error {
	var errs error
	for _, total := range p.bridge.take() {
		errs = multierr.Append(errs, p.max.Process(ctx, event.New(total.Window, total.Window.MaxTimestamp(), total)))
	}
	return multierr.Append(errs, p.max.AdvanceWatermark(ctx, p.sums.Watermark().EventTime()))
}
