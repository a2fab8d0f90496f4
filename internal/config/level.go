// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package config

import (
	"log/slog"

	"github.com/samber/oops"
)

// ParseLevel converts a log.level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, oops.Code(CodeInvalid).With("log.level", s).Errorf("invalid log level %q", s)
	}
	return level, nil
}
