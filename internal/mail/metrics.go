// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package mail

import "github.com/prometheus/client_golang/prometheus"

const (
	backendLog = "log"
	backendSES = "ses"
)

// Sent counts delivery attempts by backend and outcome.
var Sent = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "guildhall_mail_sent_total",
		Help: "Total number of outbound mail attempts",
	},
	[]string{"backend", "outcome"},
)

// RegisterMetrics registers mail metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Sent)
}

func recordSend(backend string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	Sent.WithLabelValues(backend, outcome).Inc()
}
