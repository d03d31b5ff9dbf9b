package logger

import (
	"io"
	"os"
)

// Config holds the configuration for the logger
type Config struct {
	Level      LogLevel
	Format     OutputFormat
	Output     io.Writer
	Subsystem  string
	FileConfig *FileConfig
}

// FileConfig holds file rotation configuration
type FileConfig struct {
	Filename   string // File path
	MaxSize    int    // Maximum size in megabytes
	MaxAge     int    // Maximum age in days
	MaxBackups int    // Maximum number of backup files
	Compress   bool   // Whether to compress rotated files
}

// DefaultConfig returns a default configuration. Output goes to stderr so
// that stdout stays available as a credential sink.
func DefaultConfig() *Config {
	return &Config{
		Level:     InfoLevel,
		Format:    DefaultFormat,
		Output:    os.Stderr,
		Subsystem: "",
	}
}

// DefaultFileConfig returns a default file configuration
func DefaultFileConfig(filename string) *FileConfig {
	return &FileConfig{
		Filename:   filename,
		MaxSize:    100, // 100MB
		MaxAge:     30,  // 30 days
		MaxBackups: 10,  // 10 backup files
		Compress:   true,
	}
}
