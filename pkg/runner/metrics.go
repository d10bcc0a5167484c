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

package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/keyedflow/pkg/metrics"
)

// dispatchedCount counts the events handed to each worker
var dispatchedCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "runner",
	Name:      "dispatched_total",
	Help:      "Total number of events dispatched to a worker",
}, []string{metrics.LabelComponent, metrics.LabelWorker})

// processErrorCount counts the events a worker failed to process
var processErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "runner",
	Name:      "process_error_total",
	Help:      "Total number of events that failed processing",
}, []string{metrics.LabelComponent})

// watermarkGauge is the low watermark across the workers of a runner
var watermarkGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Subsystem: "runner",
	Name:      "watermark",
	Help:      "Low watermark across all workers in epoch milliseconds",
}, []string{metrics.LabelComponent})
