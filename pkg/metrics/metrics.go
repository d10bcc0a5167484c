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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelVersion   = "version"
	LabelPlatform  = "platform"
	LabelComponent = "component"
	LabelEngine    = "engine"
	LabelSink      = "sink"
	LabelSource    = "source"
	LabelOp        = "op"
	LabelWorker    = "worker"
)

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "A metric with a constant value '1', labeled by keyedflow binary version, platform, and component",
	}, []string{LabelComponent, LabelVersion, LabelPlatform})
)

// Sink metrics, shared by every sink implementation.
var (
	// SinkWriteCount is the number of results written to a sink
	SinkWriteCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "sink",
		Name:      "write_total",
		Help:      "Total number of results written to the sink",
	}, []string{LabelSink})

	// SinkWriteErrorCount is the number of failed sink writes
	SinkWriteErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "sink",
		Name:      "write_error_total",
		Help:      "Total number of sink write errors",
	}, []string{LabelSink})
)

// Source metrics
var (
	// SourceReadCount is the number of records decoded by a source
	SourceReadCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "source",
		Name:      "read_total",
		Help:      "Total number of records read from the source",
	}, []string{LabelSource})

	// SourceReadErrorCount is the number of records a source failed to decode
	SourceReadErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "source",
		Name:      "read_error_total",
		Help:      "Total number of records that failed decoding",
	}, []string{LabelSource})
)
