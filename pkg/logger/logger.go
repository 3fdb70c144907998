package logger

import (
	"io"
	"log/slog"
	"os"
)

// Log is usable before Init; it discards output until then.
var Log = slog.New(slog.NewTextHandler(io.Discard, nil))

func Init() {
	InitWithWriter(os.Stdout, slog.LevelDebug)
}

// InitWithWriter installs a JSON logger writing to w.
func InitWithWriter(w io.Writer, level slog.Level) {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	Log = slog.New(handler)
}
