// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

// Package errutil holds logging and test helpers for oops errors.
package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level. See LogErrorAt.
func LogError(logger *slog.Logger, msg string, err error) {
	LogErrorAt(context.Background(), logger, slog.LevelError, msg, err)
}

// LogErrorAt logs err at level. Oops errors contribute their code and
// context as attributes; other errors are logged as a string.
func LogErrorAt(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Log(ctx, level, msg, "error", err)
		return
	}

	attrs := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != nil {
		attrs = append(attrs, "code", code)
	}
	if fields := oopsErr.Context(); len(fields) > 0 {
		attrs = append(attrs, "context", fields)
	}
	logger.Log(ctx, level, msg, attrs...)
}
