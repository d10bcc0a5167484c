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

// Package runner drives a keyed processor with a fixed set of workers. Every key is owned by exactly one
// worker, chosen by hashing the key, so the events of a key are processed in arrival order while different
// keys are processed in parallel. Processors that own a watermark are advanced to the low watermark across
// the workers, so a worker running ahead never fires timers of keys still queued on a slower one.
package runner

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/numaproj/keyedflow/pkg/event"
	"github.com/numaproj/keyedflow/pkg/shared/logging"
	"github.com/numaproj/keyedflow/pkg/shuffle"
)

// Processor consumes keyed events. Process must be safe for concurrent use by different keys.
type Processor[K comparable, P any] interface {
	Process(ctx context.Context, ev event.Event[K, P]) error
}

// WatermarkAdvancer is implemented by processors whose event-time clock is driven by the runner. Such
// processors should be built so Process does not move the watermark on its own.
type WatermarkAdvancer interface {
	AdvanceWatermark(ctx context.Context, wm event.EventTime) error
}

// Flusher is implemented by processors holding results until the end of the input.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Runner dispatches events from a channel to its workers.
type Runner[K comparable, P any] struct {
	processor Processor[K, P]
	shuffle   *shuffle.Shuffle[K]
	opts      *options
	log       *zap.SugaredLogger
}

// New returns a Runner for processor.
func New[K comparable, P any](ctx context.Context, processor Processor[K, P], opts ...Option) (*Runner[K, P], error) {
	o := DefaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.logger == nil {
		o.logger = logging.FromContext(ctx)
	}
	return &Runner[K, P]{
		processor: processor,
		shuffle:   shuffle.NewShuffle[K](o.workers),
		opts:      o,
		log:       o.logger.With("runner", o.name),
	}, nil
}

// Run processes events until source is closed or ctx is done. The first processing error stops every worker
// and is returned. When source is closed and every event was processed, the processor is flushed if it is a
// Flusher and flushing is enabled.
func (r *Runner[K, P]) Run(ctx context.Context, source <-chan event.Event[K, P]) error {
	g, gCtx := errgroup.WithContext(ctx)
	prog := newProgress(r.shuffle.Partitions())
	inboxes := make([]chan event.Event[K, P], r.shuffle.Partitions())
	for i := range inboxes {
		inboxes[i] = make(chan event.Event[K, P], r.opts.bufferSize)
		inbox, worker := inboxes[i], i
		g.Go(func() error {
			return r.work(gCtx, worker, inbox, prog)
		})
	}

	g.Go(func() error {
		defer func() {
			for _, inbox := range inboxes {
				close(inbox)
			}
		}()
		for {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case ev, ok := <-source:
				if !ok {
					return nil
				}
				worker := r.shuffle.Partition(ev.Key)
				prog.dispatched(worker, ev.Timestamp)
				select {
				case inboxes[worker] <- ev:
				case <-gCtx.Done():
					return gCtx.Err()
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	r.log.Infow("Input exhausted")
	if f, ok := r.processor.(Flusher); ok && r.opts.flush {
		if err := f.Flush(ctx); err != nil {
			return fmt.Errorf("failed to flush: %w", err)
		}
	}
	return nil
}

func (r *Runner[K, P]) work(ctx context.Context, worker int, inbox <-chan event.Event[K, P], prog *progress) error {
	name := strconv.Itoa(worker)
	dispatched := dispatchedCount.WithLabelValues(r.opts.name, name)
	wmGauge := watermarkGauge.WithLabelValues(r.opts.name)
	advancer, _ := r.processor.(WatermarkAdvancer)
	for ev := range inbox {
		if err := ctx.Err(); err != nil {
			return err
		}
		dispatched.Inc()
		if err := r.processor.Process(ctx, ev); err != nil {
			processErrorCount.WithLabelValues(r.opts.name).Inc()
			r.log.Errorw("Failed to process event", zap.String("worker", name), zap.Any("key", ev.Key), zap.Error(err))
			return fmt.Errorf("worker %s: %w", name, err)
		}
		wm := prog.processed(worker)
		if advancer == nil || wm == event.MinEventTime {
			continue
		}
		wmGauge.Set(float64(wm))
		if err := advancer.AdvanceWatermark(ctx, wm); err != nil {
			processErrorCount.WithLabelValues(r.opts.name).Inc()
			r.log.Errorw("Failed to advance watermark", zap.String("worker", name), zap.Int64("watermark", int64(wm)), zap.Error(err))
			return fmt.Errorf("worker %s: failed to advance watermark: %w", name, err)
		}
	}
	return nil
}

// Feed sends events to a new channel and closes it afterwards, stopping early when ctx is done.
func Feed[K comparable, P any](ctx context.Context, events []event.Event[K, P]) <-chan event.Event[K, P] {
	ch := make(chan event.Event[K, P])
	go func() {
		defer close(ch)
		for _, ev := range events {
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
