// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package store

import (
	"fmt"
	"log/slog"
	"os"
)

// ExitCodeInvariant is the process exit status after an invariant violation.
const ExitCodeInvariant = 70

// InvariantViolation is the panic value raised when storage state contradicts
// an assumption the engines rely on.
type InvariantViolation struct {
	Message string
	Attrs   []any
}

func (v *InvariantViolation) Error() string {
	if len(v.Attrs) == 0 {
		return "invariant violated: " + v.Message
	}
	return fmt.Sprintf("invariant violated: %s %v", v.Message, v.Attrs)
}

// Invariant panics with *InvariantViolation when ok is false.
func Invariant(ok bool, msg string, attrs ...any) {
	if ok {
		return
	}
	slog.Error("invariant violated", append([]any{"invariant", msg}, attrs...)...)
	panic(&InvariantViolation{Message: msg, Attrs: attrs})
}

// ExactlyOne asserts that a statement affected one row.
func ExactlyOne(rows int64, operation string) {
	Invariant(rows == 1, "expected exactly one affected row", "operation", operation, "rows", rows)
}

// AtMostOne asserts that a statement affected zero or one rows.
func AtMostOne(rows int64, operation string) {
	Invariant(rows <= 1, "expected at most one affected row", "operation", operation, "rows", rows)
}

// Abort logs v and terminates the process. HTTP servers call it from their
// panic recovery so a violation is not swallowed by net/http.
func Abort(v *InvariantViolation) {
	slog.Error("aborting after invariant violation", "error", v.Error())
	os.Exit(ExitCodeInvariant)
}
