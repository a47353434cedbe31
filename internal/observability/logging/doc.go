// Package logging builds the application's log/slog loggers and carries them
// through request contexts.
//
// New selects a JSON or text handler and a level from configuration strings.
// WithRequestID attaches the current request ID so that every line written
// while serving a request can be correlated.
//
// Example usage:
//
//	logger := logging.New(logging.Options{Format: "json", Level: "debug"})
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.WithRequestID(ctx, slog.Default()).Info("processing request")
//	}
package logging
