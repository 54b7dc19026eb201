// Package logging builds the process logger: human-readable console
// output, optionally teed into a size-rotated file.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options mirror the HUSKY_LOG_* config knobs.
type Options struct {
	Level     string
	File      string
	MaxSizeMB int
	MaxFiles  int
}

// New builds the root logger. Unknown level strings fall back to info.
func New(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	var out io.Writer = console
	if opts.File != "" {
		out = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxFiles,
		})
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
