package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Level is the severity of a log entry
type Level string

const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

// ParseLevel validates a level string against the known severities
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelError, LevelWarn, LevelInfo, LevelDebug:
		return Level(s), nil
	}
	return "", fmt.Errorf("unknown log level %q (expected error, warn, info or debug)", s)
}

// LogEntry represents a single log entry produced by an app
type LogEntry struct {
	ID        string          `json:"id"`
	AppID     string          `json:"appId"`
	Message   string          `json:"message"`
	Level     Level           `json:"level,omitempty"` // empty means info
	Timestamp time.Time       `json:"timestamp"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// EffectiveLevel returns the entry's level, defaulting to info when unset
func (e LogEntry) EffectiveLevel() Level {
	if e.Level == "" {
		return LevelInfo
	}
	return e.Level
}

// Pagination describes the cursor position within an ordered log stream
type Pagination struct {
	HasNextPage bool   `json:"hasNextPage"`
	NextCursor  string `json:"nextCursor,omitempty"`
	PrevCursor  string `json:"prevCursor,omitempty"`
	Limit       int    `json:"limit"`
}

// LogPage is one page of log entries plus its cursor metadata
type LogPage struct {
	Data       []LogEntry `json:"data"`
	Pagination Pagination `json:"pagination"`
}
