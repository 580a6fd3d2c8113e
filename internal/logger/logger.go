package logger

import (
	"io"
	"log/slog"
	"os"
)

// InitJSONLogger sets the default slog logger to JSON on stdout. debug lowers the level to Debug.
func InitJSONLogger(debug bool) {
	slog.SetDefault(slog.New(newJSONHandler(os.Stdout, debug)))
}

func newJSONHandler(w io.Writer, debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}
