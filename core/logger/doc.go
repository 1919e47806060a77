// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production).
//
// # Run Awareness
//
// Every command invocation gets its own run id. The WithRun helper attaches it,
// together with the command name, so all log entries of one invocation can be
// correlated with each other and with the audit journal.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	l, runID := logger.WithRun(log, "create-s3bucket")
//	l.Info("Bucket created", zap.String("bucket", name))
package logger
