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
	"github.com/spf13/cobra"

	"github.com/numaproj/keyedflow/pkg/apps/longrides"
	"github.com/numaproj/keyedflow/pkg/config"
	"github.com/numaproj/keyedflow/pkg/engine"
	"github.com/numaproj/keyedflow/pkg/event"
)

func NewLongRidesCommand() *cobra.Command {
	var (
		input      string
		logResults bool
	)

	command := &cobra.Command{
		Use:   "longrides",
		Short: "Report taxi rides that did not end within a timeout of their start",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(settings, configFile)
			if err != nil {
				return err
			}
			ctx, stop := signalContext("longrides")
			defer stop()

			in, err := openInput(input)
			if err != nil {
				return err
			}
			defer in.Close()

			sink := resultSink[longrides.TaxiRide](ctx, "longrides", cmd.OutOrStdout(), logResults)
			e, err := longrides.NewEngine(ctx, conf.LongRides.Timeout, sink, engine.WithShards(conf.Engine.Shards), engine.WithExternalWatermark())
			if err != nil {
				return err
			}
			return job[int64, longrides.TaxiRide, longrides.TaxiRide]{
				name:      "longrides",
				conf:      conf,
				processor: e,
				convert:   func(r longrides.TaxiRide) event.Event[int64, longrides.TaxiRide] { return r.ToEvent() },
			}.run(ctx, in)
		},
	}
	command.Flags().StringVar(&input, "input", "-", "JSON lines file of taxi rides, '-' for stdin")
	command.Flags().BoolVar(&logResults, "log-results", false, "Also log every alert")
	command.Flags().Duration("timeout", longrides.DefaultTimeout, "How long a ride may last before it is reported")
	bindFlag(settings, command, "longrides.timeout", "timeout")
	return command
}
