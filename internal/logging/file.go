package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how verbosely the application logs.
type Options struct {
	// File is the path of the rotated JSON log. Empty means text on stderr.
	File       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
}

// New builds the application logger. The returned closer flushes and closes
// the rotated file, if any; it is safe to call on the stderr variant.
func New(opts Options) (*SlogLogger, io.Closer) {
	hopts := &slog.HandlerOptions{Level: parseLevel(opts.Level)}

	if opts.File == "" {
		return NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, hopts))), io.NopCloser(nil)
	}

	w := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   true,
	}
	return NewSlogLogger(slog.New(slog.NewJSONHandler(w, hopts))), w
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
