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

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/keyedflow/pkg/metrics"
)

// eventsCount is the number of events ingested
var eventsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "engine",
	Name:      "events_total",
	Help:      "Total number of events ingested",
}, []string{metrics.LabelEngine})

// lateEventsCount is the number of events whose timestamp was behind the watermark on arrival
var lateEventsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "engine",
	Name:      "late_events_total",
	Help:      "Total number of events that arrived behind the watermark",
}, []string{metrics.LabelEngine})

// timersRegisteredCount is the number of timers registered by callbacks
var timersRegisteredCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "engine",
	Name:      "timers_registered_total",
	Help:      "Total number of event-time timers registered",
}, []string{metrics.LabelEngine})

// timersCancelledCount is the number of timers removed before firing
var timersCancelledCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "engine",
	Name:      "timers_cancelled_total",
	Help:      "Total number of event-time timers cancelled before firing",
}, []string{metrics.LabelEngine})

// timersFiredCount is the number of timers fired
var timersFiredCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "engine",
	Name:      "timers_fired_total",
	Help:      "Total number of event-time timers fired",
}, []string{metrics.LabelEngine})

// callbackErrorCount is the number of failed callback invocations
var callbackErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "engine",
	Name:      "callback_error_total",
	Help:      "Total number of failed callback invocations",
}, []string{metrics.LabelEngine, metrics.LabelOp})

// watermarkGauge is the current watermark in milliseconds
var watermarkGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Subsystem: "engine",
	Name:      "watermark",
	Help:      "Current watermark (milliseconds since epoch)",
}, []string{metrics.LabelEngine})

// pendingTimersGauge is the number of outstanding timers
var pendingTimersGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Subsystem: "engine",
	Name:      "pending_timers",
	Help:      "Number of outstanding event-time timers",
}, []string{metrics.LabelEngine})

// callbackTime is the callback processing latency
var callbackTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Subsystem: "engine",
	Name:      "callback_time",
	Help:      "Callback processing time (1 to 1000000 microseconds)",
	Buckets:   prometheus.ExponentialBucketsRange(1, 1000000, 6),
}, []string{metrics.LabelEngine, metrics.LabelOp})

// engineMetrics holds the series of one engine, curried once at construction.
type engineMetrics struct {
	events           prometheus.Counter
	lateEvents       prometheus.Counter
	timersRegistered prometheus.Counter
	timersCancelled  prometheus.Counter
	timersFired      prometheus.Counter
	watermark        prometheus.Gauge
	pendingTimers    prometheus.Gauge
	name             string
}

func newEngineMetrics(name string) engineMetrics {
	return engineMetrics{
		events:           eventsCount.WithLabelValues(name),
		lateEvents:       lateEventsCount.WithLabelValues(name),
		timersRegistered: timersRegisteredCount.WithLabelValues(name),
		timersCancelled:  timersCancelledCount.WithLabelValues(name),
		timersFired:      timersFiredCount.WithLabelValues(name),
		watermark:        watermarkGauge.WithLabelValues(name),
		pendingTimers:    pendingTimersGauge.WithLabelValues(name),
		name:             name,
	}
}

func (m engineMetrics) callbackError(op string) {
	callbackErrorCount.WithLabelValues(m.name, op).Inc()
}

func (m engineMetrics) observeCallback(op string, micros float64) {
	callbackTime.WithLabelValues(m.name, op).Observe(micros)
}
