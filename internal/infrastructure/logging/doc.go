// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Logs go to stderr by default so command line tools can keep stdout for
// their results.
//
// Example Usage:
//
//	logger := logging.NewOrNop(logging.Options{
//		Level:       cfg.Logging.Level,
//		Development: cfg.Logging.Development,
//	})
//	defer logger.Sync()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	logger.Error("Evaluation failed", zap.Error(err))
package logging
