// Package logger is a thin factory around log/slog: functional options for
// format, level and output, helper attribute constructors, and transparent
// injection of context values (such as request IDs) into every record.
//
// A single call configures logging for the whole process:
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatText),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithService("sessionsink"),
//	)
//	logger.SetAsDefault(log)
//
// Twelve-factor setups populate the same knobs from the environment:
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//	log := logger.NewFromConfig(cfg)
//
// Context injection keeps request-scoped values on every line without
// threading them by hand:
//
//	log := logger.New(
//	    logger.WithContextValue("request_id", middleware.RequestIDKey),
//	)
//	log.InfoContext(r.Context(), "event stored") // carries request_id
package logger
