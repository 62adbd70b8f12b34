package pg

import "context"

// logger is the subset of slog used by Migrate. Declared locally so callers
// can pass *slog.Logger or any structured logger without this package
// importing one.
type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}
