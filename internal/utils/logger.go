package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions configures a BuildLogger.
type LogOptions struct {
	Level      string
	Format     string // console or json
	File       string // optional, rotated with lumberjack
	MaxSizeMB  int
	MaxBackups int
}

type BuildLogger struct {
	logger zerolog.Logger
	file   io.Closer
}

func NewBuildLogger(opts LogOptions) (*BuildLogger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	var writers []io.Writer
	if strings.EqualFold(opts.Format, "json") {
		writers = append(writers, os.Stderr)
	} else {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"})
	}

	var file io.Closer
	if opts.File != "" {
		// Create logs directory if it doesn't exist
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 100),
			MaxBackups: orDefault(opts.MaxBackups, 3),
		}
		writers = append(writers, rotator)
		file = rotator
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &BuildLogger{
		logger: logger,
		file:   file,
	}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *BuildLogger {
	return &BuildLogger{logger: zerolog.Nop()}
}

// With returns a child logger carrying key=value on every line.
func (bl *BuildLogger) With(key, value string) *BuildLogger {
	return &BuildLogger{
		logger: bl.logger.With().Str(key, value).Logger(),
		file:   bl.file,
	}
}

func (bl *BuildLogger) LogInfo(format string, v ...interface{}) {
	bl.logger.Info().Msgf(format, v...)
}

func (bl *BuildLogger) LogError(format string, v ...interface{}) {
	bl.logger.Error().Msgf(format, v...)
}

func (bl *BuildLogger) LogDebug(format string, v ...interface{}) {
	bl.logger.Debug().Msgf(format, v...)
}

// Close closes the log file, if any. Children made by With share it.
func (bl *BuildLogger) Close() error {
	if bl.file == nil {
		return nil
	}
	return bl.file.Close()
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
