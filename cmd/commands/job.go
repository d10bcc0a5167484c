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

package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/numaproj/keyedflow"
	"github.com/numaproj/keyedflow/pkg/config"
	"github.com/numaproj/keyedflow/pkg/event"
	"github.com/numaproj/keyedflow/pkg/metrics"
	"github.com/numaproj/keyedflow/pkg/runner"
	"github.com/numaproj/keyedflow/pkg/shared/logging"
	"github.com/numaproj/keyedflow/pkg/sinks"
	sinkjsonl "github.com/numaproj/keyedflow/pkg/sinks/jsonl"
	"github.com/numaproj/keyedflow/pkg/sinks/logger"
	sourcejsonl "github.com/numaproj/keyedflow/pkg/sources/jsonl"
)

// job is what every command needs to run a processor over a JSON lines input.
type job[K comparable, P, T any] struct {
	name      string
	conf      *config.Config
	processor runner.Processor[K, P]
	convert   func(T) event.Event[K, P]
}

// run starts the metrics server when a port is configured, feeds in to the processor and flushes it once the
// input is exhausted.
func (j job[K, P, T]) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	log := logging.FromContext(ctx)
	v := keyedflow.GetVersion()
	metrics.BuildInfo.WithLabelValues(j.name, v.Version, v.Platform).Set(1)
	log.Infow("Starting job", zap.String("job", j.name), zap.String("version", v.Version))

	if j.conf.Metrics.Port > 0 {
		running := metrics.HealthCheckerFunc(func(context.Context) error {
			return ctx.Err()
		})
		opts := append(metrics.NewMetricsOptions(ctx, j.conf.Metrics.Port, []metrics.HealthChecker{running}), metrics.WithPprof(j.conf.Metrics.Pprof))
		shutdown, err := metrics.NewMetricsServer(opts...).Start(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Errorw("Failed to shut down metrics server", zap.Error(err))
			}
		}()
	}

	r, err := runner.New[K, P](ctx, j.processor,
		runner.WithName(j.name),
		runner.WithWorkers(j.conf.Runner.Workers),
		runner.WithBufferSize(j.conf.Runner.BufferSize),
		runner.WithFlushOnEnd(false),
	)
	if err != nil {
		return err
	}
	events, errCh := sourcejsonl.Stream(ctx, j.name, in, j.convert)
	if err := r.Run(ctx, events); err != nil {
		cancel()
		<-errCh
		return err
	}
	if err := <-errCh; err != nil {
		return err
	}
	if f, ok := j.processor.(runner.Flusher); ok {
		if err := f.Flush(ctx); err != nil {
			return fmt.Errorf("failed to flush %s: %w", j.name, err)
		}
	}
	log.Infow("Job finished", zap.String("job", j.name))
	return nil
}

// openInput opens path for reading, "-" is stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

// resultSink writes results as JSON lines to out and, when logResults is set, to the log as well.
func resultSink[O any](ctx context.Context, name string, out io.Writer, logResults bool) sinks.Sink[O] {
	var sink sinks.Sink[O] = sinkjsonl.NewWriter[O](name, out)
	if logResults {
		sink = sinks.Tee[O](sink, logger.NewToLog[O](ctx, name))
	}
	return sink
}
