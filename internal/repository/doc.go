// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

// Package repository holds the SQL primitives the engines compose. Every
// function takes the transaction it runs in; none of them open one.
//
// Lookups report absence with a found flag or a nil pointer rather than an
// error, so engines decide which not-found kind applies. Driver failures come
// back as STORAGE_ERROR. Mutations return the affected row count and leave
// row-count invariants to the caller.
package repository
