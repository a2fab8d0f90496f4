// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package httpapi

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Requests counts served requests by route pattern and status.
var Requests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "guildhall_http_requests_total",
		Help: "Total number of API requests by route and status",
	},
	[]string{"route", "status"},
)

// RequestDuration observes request latency by route pattern.
var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "guildhall_http_request_duration_seconds",
		Help:    "API request latency",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route"},
)

// RegisterMetrics registers API metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Requests)
	reg.MustRegister(RequestDuration)
}

func recordRequest(route string, status int, d time.Duration) {
	Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}
