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

// Package config loads the settings of the keyedflow jobs from defaults, an optional YAML file and
// KEYEDFLOW_ prefixed environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/numaproj/keyedflow/pkg/apps/hourlytips"
	"github.com/numaproj/keyedflow/pkg/apps/longrides"
	"github.com/numaproj/keyedflow/pkg/metrics"
	"github.com/numaproj/keyedflow/pkg/state"
	"github.com/numaproj/keyedflow/pkg/udferr"
)

// EnvPrefix prefixes every environment override, e.g. KEYEDFLOW_LONGRIDES_TIMEOUT.
const EnvPrefix = "KEYEDFLOW"

type Config struct {
	Engine     EngineConfig     `json:"engine" mapstructure:"engine"`
	Runner     RunnerConfig     `json:"runner" mapstructure:"runner"`
	Metrics    MetricsConfig    `json:"metrics" mapstructure:"metrics"`
	LongRides  LongRidesConfig  `json:"longRides" mapstructure:"longrides"`
	HourlyTips HourlyTipsConfig `json:"hourlyTips" mapstructure:"hourlytips"`
}

type EngineConfig struct {
	// Shards is the number of state and lock shards of an engine
	Shards int `json:"shards" mapstructure:"shards"`
}

type RunnerConfig struct {
	Workers    int `json:"workers" mapstructure:"workers"`
	BufferSize int `json:"bufferSize" mapstructure:"buffersize"`
}

type MetricsConfig struct {
	// Port of the metrics server, 0 disables it
	Port  int  `json:"port" mapstructure:"port"`
	Pprof bool `json:"pprof" mapstructure:"pprof"`
}

type LongRidesConfig struct {
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

type HourlyTipsConfig struct {
	WindowSize time.Duration `json:"windowSize" mapstructure:"windowsize"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.shards", state.DefaultShards)
	v.SetDefault("runner.workers", 4)
	v.SetDefault("runner.buffersize", 128)
	v.SetDefault("metrics.port", metrics.DefaultMetricsPort)
	v.SetDefault("metrics.pprof", false)
	v.SetDefault("longrides.timeout", longrides.DefaultTimeout)
	v.SetDefault("hourlytips.windowsize", hourlytips.DefaultWindowSize)
}

// New returns a viper instance with the defaults and the environment bindings in place.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file at path, if any, into v and validates the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load configuration file. %w", err)
		}
	}
	conf := &Config{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("failed unmarshal configuration file. %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate returns a *udferr.ConfigError for the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Engine.Shards <= 0:
		return udferr.NewConfigError("engine.shards", c.Engine.Shards, "must be positive")
	case c.Runner.Workers <= 0:
		return udferr.NewConfigError("runner.workers", c.Runner.Workers, "must be positive")
	case c.Runner.BufferSize < 0:
		return udferr.NewConfigError("runner.bufferSize", c.Runner.BufferSize, "must not be negative")
	case c.Metrics.Port < 0 || c.Metrics.Port > 65535:
		return udferr.NewConfigError("metrics.port", c.Metrics.Port, "must be a port number or 0")
	case c.LongRides.Timeout.Milliseconds() <= 0:
		return udferr.NewConfigError("longRides.timeout", c.LongRides.Timeout, "must be at least 1ms")
	case c.HourlyTips.WindowSize.Milliseconds() <= 0:
		return udferr.NewConfigError("hourlyTips.windowSize", c.HourlyTips.WindowSize, "must be at least 1ms")
	}
	return nil
}
