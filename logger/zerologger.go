package logger

import (
	"io"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Zerolog field implementations
func (f StringField) apply(event *zerolog.Event) *zerolog.Event {
	return event.Str(f.Key, f.Value)
}

func (f IntField) apply(event *zerolog.Event) *zerolog.Event {
	return event.Int(f.Key, f.Value)
}

func (f Int64Field) apply(event *zerolog.Event) *zerolog.Event {
	return event.Int64(f.Key, f.Value)
}

func (f BoolField) apply(event *zerolog.Event) *zerolog.Event {
	return event.Bool(f.Key, f.Value)
}

func (f DurationField) apply(event *zerolog.Event) *zerolog.Event {
	return event.Dur(f.Key, f.Value)
}

func (f TimeField) apply(event *zerolog.Event) *zerolog.Event {
	return event.Time(f.Key, f.Value)
}

func (f ErrorField) apply(event *zerolog.Event) *zerolog.Event {
	return event.Err(f.Value)
}

// ZerologLogger implements Logger using zerolog
type ZerologLogger struct {
	logger     zerolog.Logger
	config     *Config
	subsystem  string
	fileWriter *lumberjack.Logger
}

// NewZerologLogger creates a new ZerologLogger
func NewZerologLogger(config *Config) Logger {
	if config == nil {
		config = DefaultConfig()
	}

	var zerologLevel zerolog.Level
	switch config.Level {
	case TraceLevel:
		zerologLevel = zerolog.TraceLevel
	case DebugLevel:
		zerologLevel = zerolog.DebugLevel
	case InfoLevel:
		zerologLevel = zerolog.InfoLevel
	case WarnLevel:
		zerologLevel = zerolog.WarnLevel
	case ErrorLevel:
		zerologLevel = zerolog.ErrorLevel
	default:
		zerologLevel = zerolog.InfoLevel
	}

	var writers []io.Writer
	var fileWriter *lumberjack.Logger

	if config.Output != nil {
		if config.Format == DefaultFormat {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        config.Output,
				TimeFormat: "15:04:05",
			})
		} else {
			writers = append(writers, config.Output)
		}
	}

	if config.FileConfig != nil {
		fileWriter = &lumberjack.Logger{
			Filename:   config.FileConfig.Filename,
			MaxSize:    config.FileConfig.MaxSize,
			MaxAge:     config.FileConfig.MaxAge,
			MaxBackups: config.FileConfig.MaxBackups,
			Compress:   config.FileConfig.Compress,
			LocalTime:  true,
		}
		writers = append(writers, fileWriter)
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	ctx := zerolog.New(out).Level(zerologLevel).With().Timestamp()
	if config.Subsystem != "" {
		ctx = ctx.Str("subsystem", config.Subsystem)
	}

	return &ZerologLogger{
		logger:     ctx.Logger(),
		config:     config,
		subsystem:  config.Subsystem,
		fileWriter: fileWriter,
	}
}

func (z *ZerologLogger) log(event *zerolog.Event, msg string, fields ...TypedField) {
	if event == nil {
		return
	}
	for _, field := range fields {
		event = field.apply(event)
	}
	event.Msg(msg)
}

func (z *ZerologLogger) Trace(msg string, fields ...TypedField) {
	z.log(z.logger.Trace(), msg, fields...)
}

func (z *ZerologLogger) Debug(msg string, fields ...TypedField) {
	z.log(z.logger.Debug(), msg, fields...)
}

func (z *ZerologLogger) Info(msg string, fields ...TypedField) {
	z.log(z.logger.Info(), msg, fields...)
}

func (z *ZerologLogger) Warn(msg string, fields ...TypedField) {
	z.log(z.logger.Warn(), msg, fields...)
}

func (z *ZerologLogger) Error(msg string, fields ...TypedField) {
	z.log(z.logger.Error(), msg, fields...)
}

// WithSubsystem returns a derived logger tagged with the subsystem name
func (z *ZerologLogger) WithSubsystem(name string) Logger {
	subsystem := name
	if z.subsystem != "" {
		subsystem = z.subsystem + "." + name
	}
	return &ZerologLogger{
		logger:     z.logger.With().Str("subsystem", subsystem).Logger(),
		config:     z.config,
		subsystem:  subsystem,
		fileWriter: z.fileWriter,
	}
}

// WithFields returns a derived logger carrying the given fields on every event
func (z *ZerologLogger) WithFields(fields ...TypedField) Logger {
	ctx := z.logger.With()
	for _, field := range fields {
		switch f := field.(type) {
		case StringField:
			ctx = ctx.Str(f.Key, f.Value)
		case IntField:
			ctx = ctx.Int(f.Key, f.Value)
		case Int64Field:
			ctx = ctx.Int64(f.Key, f.Value)
		case BoolField:
			ctx = ctx.Bool(f.Key, f.Value)
		case DurationField:
			ctx = ctx.Dur(f.Key, f.Value)
		case TimeField:
			ctx = ctx.Time(f.Key, f.Value)
		case ErrorField:
			ctx = ctx.AnErr(f.Key, f.Value)
		}
	}
	return &ZerologLogger{
		logger:     ctx.Logger(),
		config:     z.config,
		subsystem:  z.subsystem,
		fileWriter: z.fileWriter,
	}
}

// IsLevelEnabled reports whether the given level would be written
func (z *ZerologLogger) IsLevelEnabled(level LogLevel) bool {
	var zl zerolog.Level
	switch level {
	case TraceLevel:
		zl = zerolog.TraceLevel
	case DebugLevel:
		zl = zerolog.DebugLevel
	case InfoLevel:
		zl = zerolog.InfoLevel
	case WarnLevel:
		zl = zerolog.WarnLevel
	case ErrorLevel:
		zl = zerolog.ErrorLevel
	default:
		zl = zerolog.InfoLevel
	}
	return zl >= z.logger.GetLevel()
}

// Close releases the file writer, if any
func (z *ZerologLogger) Close() error {
	if z.fileWriter != nil {
		return z.fileWriter.Close()
	}
	return nil
}

// interface guard
var _ Logger = (*ZerologLogger)(nil)

// NopLogger discards everything. Useful in tests.
type NopLogger struct{}

func (NopLogger) Trace(string, ...TypedField) {}
func (NopLogger) Debug(string, ...TypedField) {}
func (NopLogger) Info(string, ...TypedField)  {}
func (NopLogger) Warn(string, ...TypedField)  {}
func (NopLogger) Error(string, ...TypedField) {}

func (n NopLogger) WithSubsystem(string) Logger     { return n }
func (n NopLogger) WithFields(...TypedField) Logger { return n }

func (NopLogger) IsLevelEnabled(LogLevel) bool { return false }
func (NopLogger) Close() error                 { return nil }
