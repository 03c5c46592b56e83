// Package logging defines the structured-logging interface used across
// vaultx and its slog-backed implementation.
package logging

import "context"

// Attribute keys shared by every component so log lines can be grepped
// across the sync, document and auth paths.
const (
	KeyModule = "module"
	KeyDoc    = "id"
	KeyUser   = "user"
	KeyErr    = "err"
)

// Logger is a context-aware, structured logger. Args are key/value pairs:
//
//	log.Info(ctx, "document synced", logging.KeyDoc, doc.ID, "key", key)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	With(args ...any) Logger
}

// Module scopes l to a named component, e.g. "autosync" or "documents".
// A nil logger yields a discarding one.
func Module(l Logger, name string, args ...any) Logger {
	if l == nil {
		l = Discard()
	}
	return l.With(append([]any{KeyModule, name}, args...)...)
}
