// Package logging provides a structured logging system for drawbridge with
// unified log handling and flexible output formatting.
//
// This package implements a logging system built on Go's standard slog package,
// providing consistent logging behavior with structured output and level filtering.
//
// # Architecture
//
// The logging system is built around these core concepts:
//
// ## Log Levels
//   - **Debug**: Detailed information for debugging and development
//   - **Info**: General informational messages about application operation
//   - **Warn**: Warning messages that indicate potential issues
//   - **Error**: Error messages for failures and exceptional conditions
//
// ## Structured Logging
// All log entries include:
//   - Timestamp with nanosecond precision
//   - Log level (Debug, Info, Warn, Error)
//   - Subsystem identifier for categorization
//   - Message content with optional formatting
//   - Optional error information
//
// # Usage Examples
//
// ## Initialization
//
//	import "drawbridge/pkg/logging"
//
//	// Initialize with Info level text logging to stdout
//	logging.Init(logging.LevelInfo, logging.FormatText, os.Stdout)
//
//	// Log messages
//	logging.Info("Bootstrap", "Gateway starting up")
//	logging.Debug("ConfigLoader", "Loaded configuration from %s", configPath)
//	logging.Warn("Proxy", "Upstream %s not reachable", target)
//	logging.Error("Gateway", err, "Failed to bind %s", addr)
//
// ## Output Formats
//
// Two record encodings are supported. Development instances default to
// FormatText for readability; deployed instances default to FormatJSON so
// records can be shipped to log aggregation without further parsing:
//
//	logging.Init(logging.LevelDebug, logging.FormatJSON, os.Stdout)
//
// # Subsystem Organization
//
// Logs are organized by subsystem to enable filtering and categorization:
//
//   - **Launch**: Pre-dispatch invariant checks
//   - **Bootstrap**: Application bootstrap and launch dispatch
//   - **ConfigLoader**: Configuration loading and persistence
//   - **Gateway**: HTTP listeners and request routing
//   - **Proxy**: Upstream forwarding
//   - **TLS**: Certificate loading and hot reload
//   - **Pool**: Shared worker pool
//   - **Runtime**: Lifecycle phase transitions and exit sequencing
//
// # Integration with slog
//
// The logging system integrates with Go's standard slog package:
//   - Uses slog.Handler implementations for output formatting
//   - Converts custom LogLevel to slog.Level for compatibility
//   - Provides fallback to stderr before initialization
//
// # Thread Safety
//
// The logging system is fully thread-safe:
//   - Safe concurrent logging from multiple goroutines
//   - Protected access to shared logging state
//   - Init may be called again to replace the bootstrap logger
package logging
