// Package middleware wraps CLI command handlers with cross-cutting behavior.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Command runs one CLI subcommand with its remaining arguments.
type Command func(ctx context.Context, args []string) error

// Logging returns a Command that logs every run of next.
// It logs the command name, duration, and the error if any. Errors matching
// one of expected are user mistakes (unknown token, no orders) and log at
// Warn; anything else logs at Error.
func Logging(name string, next Command, expected ...error) Command {
	return func(ctx context.Context, args []string) error {
		start := time.Now()

		err := next(ctx, args)

		duration := time.Since(start).Milliseconds()
		if err != nil {
			if isExpected(err, expected) {
				slog.Warn("Command rejected",
					"command", name,
					"error", err,
					"duration_ms", duration,
				)
			} else {
				slog.Error("Command failed",
					"command", name,
					"error", err,
					"duration_ms", duration,
				)
			}
		} else {
			slog.Debug("Command ok",
				"command", name,
				"duration_ms", duration,
			)
		}

		return err
	}
}

func isExpected(err error, expected []error) bool {
	for _, target := range expected {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
