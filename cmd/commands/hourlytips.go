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

	"github.com/numaproj/keyedflow/pkg/apps/hourlytips"
	"github.com/numaproj/keyedflow/pkg/config"
	"github.com/numaproj/keyedflow/pkg/engine"
	"github.com/numaproj/keyedflow/pkg/event"
)

func NewHourlyTipsCommand() *cobra.Command {
	var (
		input      string
		logResults bool
	)

	command := &cobra.Command{
		Use:   "hourlytips",
		Short: "Find the driver with the most tips for every hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(settings, configFile)
			if err != nil {
				return err
			}
			ctx, stop := signalContext("hourlytips")
			defer stop()

			in, err := openInput(input)
			if err != nil {
				return err
			}
			defer in.Close()

			sink := resultSink[hourlytips.HourlyMax](ctx, "hourlytips", cmd.OutOrStdout(), logResults)
			p, err := hourlytips.NewPipeline(ctx, conf.HourlyTips.WindowSize, sink, engine.WithShards(conf.Engine.Shards), engine.WithExternalWatermark())
			if err != nil {
				return err
			}
			return job[int64, hourlytips.TaxiFare, hourlytips.TaxiFare]{
				name:      "hourlytips",
				conf:      conf,
				processor: p,
				convert:   func(f hourlytips.TaxiFare) event.Event[int64, hourlytips.TaxiFare] { return f.ToEvent() },
			}.run(ctx, in)
		},
	}
	command.Flags().StringVar(&input, "input", "-", "JSON lines file of taxi fares, '-' for stdin")
	command.Flags().BoolVar(&logResults, "log-results", false, "Also log every hourly maximum")
	command.Flags().Duration("window-size", hourlytips.DefaultWindowSize, "Length of the tumbling windows")
	bindFlag(settings, command, "hourlytips.windowsize", "window-size")
	return command
}
