// Package logger provides structured logging for instalytics.
//
// It wraps the zerolog library behind a small Logger interface with leveled
// logging, field helpers, pretty console output, and an optional log file.
// A global instance is available through Initialize/GetLogger for code that
// does not carry a logger explicitly.
//
//	cfg := &config.LoggingConfig{Level: "info"}
//	if err := logger.Initialize(cfg); err != nil { ... }
//
//	logger.WithField("username", "cristiano").Info("scrape started")
package logger
