package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// Log record sources.
const (
	SourceOutput = "output"
	SourceSystem = "system"
)

// LogRecord represents a structured output event ready for JSON encoding.
type LogRecord struct {
	Timestamp time.Time `json:"ts"`
	Task      string    `json:"task"`
	Level     string    `json:"level"`
	Message   string    `json:"msg"`
	Source    string    `json:"source"`
}

// NewOutputRecord converts a streamed command output line into a structured
// log record. The level is inferred from the line content when possible.
func NewOutputRecord(task, line string) LogRecord {
	level := inferLogLevel(line)
	if level == "" {
		level = "info"
	}
	return LogRecord{
		Timestamp: time.Now(),
		Task:      task,
		Level:     level,
		Message:   line,
		Source:    SourceOutput,
	}
}

var levelTokenPattern = regexp.MustCompile(`(?i)\b(error|warn|info)\b`)

func inferLogLevel(message string) string {
	matches := levelTokenPattern.FindStringSubmatch(message)
	if len(matches) < 2 {
		return ""
	}
	switch strings.ToLower(matches[1]) {
	case "error":
		return "error"
	case "warn":
		return "warn"
	case "info":
		return "info"
	default:
		return ""
	}
}

// EncodeLogRecord encodes a log record to JSON, reporting errors to stderr
// if needed.
func EncodeLogRecord(enc *json.Encoder, stderr io.Writer, record LogRecord) {
	if enc == nil {
		return
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if err := enc.Encode(&record); err != nil {
		fmt.Fprintf(stderr, "error: encode log: %v\n", err)
	}
}
