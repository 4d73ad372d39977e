package domain

import "strings"

// VertexStatus represents the lifecycle state of one unit of refresh work.
type VertexStatus string

const (
	// VertexStatusPending indicates the vertex is waiting for a free worker.
	VertexStatusPending VertexStatus = "pending"
	// VertexStatusRunning indicates version discovery is in progress.
	VertexStatusRunning VertexStatus = "running"
	// VertexStatusCompleted indicates discovery finished successfully.
	VertexStatusCompleted VertexStatus = "completed"
	// VertexStatusFailed indicates discovery failed.
	VertexStatusFailed VertexStatus = "failed"
	// VertexStatusSkipped indicates the requested recipe has no node to refresh.
	VertexStatusSkipped VertexStatus = "skipped"
)

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLogLevel converts a level name such as "debug" or "WARNING" to a LogLevel.
// Unknown names map to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR", "CRITICAL":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// IsTerminal checks if a status is a terminal state (Completed, Failed, Skipped).
func (s VertexStatus) IsTerminal() bool {
	switch s {
	case VertexStatusCompleted, VertexStatusFailed, VertexStatusSkipped:
		return true
	default:
		return false
	}
}
