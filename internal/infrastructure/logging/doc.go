// Package logging provides structured logging for the keypad lock.
//
// This package wraps Go's standard log/slog package so every component
// (scan task, countdown, buzzer, event journal, backends) logs with the
// same fields and format.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for bench work on the console backend
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("door unlocked", "owner", name)
//
// # Security
//
// Never log entered codes or credential table entries. Owner names and
// outcomes are fine; digits are not.
package logging
