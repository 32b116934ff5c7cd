package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with printf-style level methods
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a console logger writing to stdout at info level
func NewLogger() *Logger {
	return NewLoggerWith(os.Stdout, "info", "console")
}

// NewLoggerWith creates a logger for the given writer, level and format ("console" or "json")
func NewLoggerWith(w io.Writer, level, format string) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}
	}

	zl := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// NopLogger discards everything
func NopLogger() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// With returns a child logger carrying an extra structured field
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.zl.Info().Msg(format(msg, args))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.zl.Warn().Msg(format(msg, args))
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.zl.Error().Msg(format(msg, args))
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.zl.Debug().Msg(format(msg, args))
}

// Since logs how long an operation took at debug level
func (l *Logger) Since(op string, start time.Time) {
	l.zl.Debug().Dur("took", time.Since(start)).Msg(op)
}

func format(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
