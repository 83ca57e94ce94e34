package help

import (
	"log/slog"
	"os"
)

func Logger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	h := slog.NewJSONHandler(os.Stdout, opts)

	return slog.New(h).With(
		slog.String("service", "ashBloom"),
		slog.String("env", "test"),
	)
}
