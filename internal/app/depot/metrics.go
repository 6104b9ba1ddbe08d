// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package depot

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bhuisgen/depot/pkg/lifecycle"
)

const (
	metricNamespace = "depot"
)

var (
	listenersServing = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      "listeners_serving",
			Help:      "Number of listeners currently serving",
		},
	)
	lifecycleEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "lifecycle_events_total",
			Help:      "Number of lifecycle events published by kind",
		},
		[]string{"event"},
	)
	listenerPort = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      "listener_port",
			Help:      "Port bound by each listener",
		},
		[]string{"listener"},
	)
)

var registerOnce sync.Once

// registerMetrics registers all metrics.
func registerMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			listenersServing,
			lifecycleEvents,
			listenerPort,
		)
	})
}

// observeEvent updates the metrics for a lifecycle event.
func observeEvent(event lifecycle.Event) {
	lifecycleEvents.WithLabelValues(event.Kind().String()).Inc()

	switch event.Kind() {
	case lifecycle.EventServing:
		listenersServing.Inc()
	case lifecycle.EventClosed:
		listenersServing.Dec()
	}
}
