// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

// Package store owns the single PostgreSQL connection used by the service and
// the transaction discipline around it.
//
// Every read or write goes through Store.Read or Store.Write. At most one
// transaction is in flight per process: the connection sits behind a mutex
// that is held from BEGIN until COMMIT or ROLLBACK. Write transactions also
// take a transaction-scoped advisory lock so that other processes sharing the
// database (the CLI, a second server) serialize their writes with ours.
//
// Storage assumptions that must never break, such as an UPDATE by primary key
// touching exactly one row, are checked with Invariant, ExactlyOne and
// AtMostOne. A violation panics with *InvariantViolation and poisons the
// Store; callers are expected to let the process die.
package store
