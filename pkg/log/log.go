// Package log configures the process-wide slog default and hands out
// module-scoped loggers.
package log

import (
	"log/slog"
	"os"
)

// Setup installs a text handler on stderr at the requested level.
// Unknown level names fall back to info.
func Setup(logLevel string) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// WithModule returns the default logger tagged with the owning module,
// so every line can be traced back to the subsystem that wrote it.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
