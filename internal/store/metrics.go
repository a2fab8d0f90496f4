// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeCommit       = "commit"
	outcomeRollback     = "rollback"
	outcomeBeginFailed  = "begin_failed"
	outcomeCommitFailed = "commit_failed"
	outcomePanic        = "panic"
)

// Transactions counts finished transactions by mode and outcome.
var Transactions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "guildhall_store_transactions_total",
		Help: "Total number of storage transactions by mode and outcome",
	},
	[]string{"mode", "outcome"},
)

// LockWait observes how long callers waited for the storage handle.
var LockWait = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "guildhall_store_lock_wait_seconds",
		Help:    "Time spent waiting for the storage handle",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	},
	[]string{"mode"},
)

// RegisterMetrics registers store metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Transactions)
	reg.MustRegister(LockWait)
}

func recordTransaction(mode Mode, outcome string) {
	Transactions.WithLabelValues(mode.String(), outcome).Inc()
}

func recordLockWait(mode Mode, d time.Duration) {
	LockWait.WithLabelValues(mode.String()).Observe(d.Seconds())
}
