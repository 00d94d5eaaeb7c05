// Package logging configures slog for the emporia daemon and CLI so
// every component emits the same structured JSON on stderr.
//
// Each logger carries the emitting module's name and version as
// standing attributes, reads its level from the LOG_LEVEL environment
// variable (DEBUG, INFO, WARN/WARNING, ERROR; INFO when unset), and
// records source locations when running at debug level.
//
// Most binaries install the shared logger once at startup and then use
// slog directly:
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("emporia-api-server", version)
//
//	    slog.Info("processing request", "id", "req-123")
//	    slog.Error("operation failed", "error", err)
//	}
//
// A custom logger with an explicit level is available for components
// that need to diverge from the environment:
//
//	logger := logging.NewStructuredLogger("api-server", "v2.0.0", "debug")
//	logger.Info("server starting", "port", 8080)
//
// Typical output:
//
//	{
//	    "time": "2026-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "server started",
//	    "module": "emporia-api-server",
//	    "version": "v1.0.0",
//	    "port": 8080
//	}
package logging
