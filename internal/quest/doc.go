// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

// Package quest implements quest instancing and quest-action publishing.
//
// Accept copies a quest, with its tasks and details, into a new instance
// owned by the accepting adventurer. Complete and Cancel move an instance to
// the Closed or Deleted state. Retire soft-deletes a template without touching
// the instances already handed out.
//
// All functions run inside a transaction supplied by the caller. Accept,
// Complete, Cancel, CreateAction, EditAction and RetireAction need a write
// transaction.
package quest
