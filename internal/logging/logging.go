package logging

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

// Fields carries structured context attached to a log line.
type Fields map[string]any

// Logger writes JSON log lines scoped to a single component.
type Logger struct {
	component string
}

// New creates a logger for the given component.
func New(component string) *Logger {
	return &Logger{component: component}
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, fields ...Fields) {
	l.write("debug", msg, fields...)
}

// Info logs an info-level message.
func (l *Logger) Info(msg string, fields ...Fields) {
	l.write("info", msg, fields...)
}

// Error logs an error-level message.
func (l *Logger) Error(msg string, fields ...Fields) {
	l.write("error", msg, fields...)
}

// Fatal logs the message and exits the process.
func (l *Logger) Fatal(msg string, fields ...Fields) {
	l.write("fatal", msg, fields...)
	os.Exit(1)
}

func (l *Logger) write(level, msg string, fields ...Fields) {
	payload := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"level":     level,
		"component": l.component,
		"message":   msg,
	}
	for _, f := range fields {
		for k, v := range f {
			payload[k] = v
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("{\"component\":%q,\"level\":\"error\",\"message\":\"log encode failed: %s\"}", l.component, err.Error())
		return
	}
	log.Print(string(data))
}
