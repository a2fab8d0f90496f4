// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

// Package auth holds accounts, passwords and bearer sessions.
//
// Passwords are hashed with argon2id under a per-account salt stored next to
// the hash. Session tokens are random printable strings; only their SHA-256
// digest is persisted.
//
// Service runs each operation as a sequence of short transactions. Password
// hashing and mail delivery happen between them, never while the storage lock
// is held.
package auth
