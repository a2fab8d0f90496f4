// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package auth

import "github.com/prometheus/client_golang/prometheus"

// Logins counts login attempts by outcome: success, unauthorized, not_found
// or error.
var Logins = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "guildhall_auth_logins_total",
		Help: "Total number of login attempts by outcome",
	},
	[]string{"outcome"},
)

// RegisterMetrics registers auth metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Logins)
}
