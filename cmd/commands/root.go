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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/numaproj/keyedflow/pkg/config"
	"github.com/numaproj/keyedflow/pkg/shared/logging"
)

const (
	CLIName = "keyedflow"
)

var (
	configFile string
	settings   = config.New()
)

var rootCmd = &cobra.Command{
	Use:   CLIName,
	Short: "Event-time keyed stream processing jobs",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML configuration file")
	rootCmd.AddCommand(NewLongRidesCommand())
	rootCmd.AddCommand(NewHourlyTipsCommand())
	rootCmd.AddCommand(NewVersionCommand())
}

// Execute runs the root command and exits on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bindFlag lets a command line flag override the configuration key.
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// signalContext returns a context carrying the logger that is canceled on SIGINT or SIGTERM.
func signalContext(name string) (context.Context, context.CancelFunc) {
	log := logging.NewLogger().Named(name)
	return signal.NotifyContext(logging.WithLogger(context.Background(), log), os.Interrupt, syscall.SIGTERM)
}
