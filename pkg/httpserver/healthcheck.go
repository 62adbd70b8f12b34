package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/stayware/sessionkit/pkg/logger"
)

// HealthCheckHandler serves liveness and readiness probes from one handler.
//
// With no check functions the handler is a pure liveness probe: it always
// answers 200 "ALIVE". With checks it becomes a readiness probe: every
// check must pass for a 200 "READY"; the first failure is logged and
// answered with 500 "NOT_READY".
func HealthCheckHandler(ctx context.Context, log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ALIVE"))
			return
		}

		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "Readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	}
}
