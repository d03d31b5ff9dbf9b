package logger

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the logging level
type LogLevel int

const (
	TraceLevel LogLevel = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of LogLevel
func (l LogLevel) String() string {
	switch l {
	case TraceLevel:
		return "trace"
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "info"
	}
}

// ParseLogLevel parses a string to LogLevel
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error", "err":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// OutputFormat represents the output format
type OutputFormat int

const (
	DefaultFormat OutputFormat = iota
	JSONFormat
)

// ParseOutputFormat parses a string to OutputFormat
func ParseOutputFormat(format string) OutputFormat {
	switch strings.ToUpper(format) {
	case "JSON":
		return JSONFormat
	default:
		return DefaultFormat
	}
}

// TypedField represents a type-safe field for structured logging
type TypedField interface {
	apply(event *zerolog.Event) *zerolog.Event
}

type (
	StringField struct {
		Key   string
		Value string
	}
	IntField struct {
		Key   string
		Value int
	}
	Int64Field struct {
		Key   string
		Value int64
	}
	BoolField struct {
		Key   string
		Value bool
	}
	DurationField struct {
		Key   string
		Value time.Duration
	}
	TimeField struct {
		Key   string
		Value time.Time
	}
	ErrorField struct {
		Key   string
		Value error
	}
)

// Type-safe field constructors
func String(key, value string) TypedField {
	return StringField{Key: key, Value: value}
}

func Int(key string, value int) TypedField {
	return IntField{Key: key, Value: value}
}

func Int64(key string, value int64) TypedField {
	return Int64Field{Key: key, Value: value}
}

func Bool(key string, value bool) TypedField {
	return BoolField{Key: key, Value: value}
}

func Duration(key string, value time.Duration) TypedField {
	return DurationField{Key: key, Value: value}
}

func Time(key string, value time.Time) TypedField {
	return TimeField{Key: key, Value: value}
}

func Err(value error) TypedField {
	return ErrorField{Key: "error", Value: value}
}

// Logger defines the public interface for logging
type Logger interface {
	Trace(msg string, fields ...TypedField)
	Debug(msg string, fields ...TypedField)
	Info(msg string, fields ...TypedField)
	Warn(msg string, fields ...TypedField)
	Error(msg string, fields ...TypedField)

	// Subsystem support
	WithSubsystem(name string) Logger

	// Context support
	WithFields(fields ...TypedField) Logger

	// Level checking
	IsLevelEnabled(level LogLevel) bool

	// Close flushes and releases any file output
	Close() error
}
