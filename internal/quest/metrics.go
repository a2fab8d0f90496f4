// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package quest

import "github.com/prometheus/client_golang/prometheus"

const (
	transitionAccept   = "accept"
	transitionComplete = "complete"
	transitionCancel   = "cancel"
	transitionRetire   = "retire"
)

// Transitions counts successful lifecycle transitions. They are recorded
// before commit, so a later commit failure still counts.
var Transitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "guildhall_quest_transitions_total",
		Help: "Total number of quest lifecycle transitions by kind",
	},
	[]string{"transition"},
)

// RegisterMetrics registers quest metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Transitions)
}

func recordTransition(kind string) {
	Transitions.WithLabelValues(kind).Inc()
}
