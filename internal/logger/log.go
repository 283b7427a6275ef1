package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var DefaultLogLevel = zerolog.InfoLevel

type Logger struct {
	logger *zerolog.Logger
}

func levelColor(level string) string {
	switch level {
	case "DEBUG":
		return "\033[36m" + level + "\033[0m"
	case "INFO":
		return "\033[32m" + level + "\033[0m"
	case "WARN":
		return "\033[33m" + level + "\033[0m"
	case "ERROR":
		return "\033[31m" + level + "\033[0m"
	case "FATAL":
		return "\033[35m" + level + "\033[0m"
	default:
		return level
	}
}

// InitLogger returns a console logger on stderr tagged with fields.
func InitLogger(fields map[string]string) *Logger {
	return New(os.Stderr, true, fields)
}

// New writes to out.  color switches the ANSI level colouring on.
func New(out io.Writer, color bool, fields map[string]string) *Logger {
	consoleWriter := zerolog.ConsoleWriter{
		Out:     out,
		NoColor: true,
		FormatLevel: func(i any) string {
			level := strings.ToUpper(fmt.Sprintf("%s", i))
			if !color {
				return level
			}
			return levelColor(level)
		},
	}
	ctx := zerolog.New(consoleWriter).With().Timestamp()
	for k, v := range fields {
		ctx = ctx.Str(k, v)
	}
	entry := ctx.Logger()
	return &Logger{logger: &entry}
}

// ParseLogLevel sets the global level.  An empty string keeps the current
// one; an unknown name falls back to DefaultLogLevel and is reported.
func ParseLogLevel(level string) error {
	if len(level) == 0 {
		return nil
	}
	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		zerolog.SetGlobalLevel(DefaultLogLevel)
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(logLevel)
	return nil
}

// With returns a child logger carrying one more field.
func (l *Logger) With(key, value string) *Logger {
	child := l.logger.With().Str(key, value).Logger()
	return &Logger{logger: &child}
}

func (l *Logger) Info(format string, args ...any) {
	l.logger.Info().Msgf(fmt.Sprintf("%-40s\t", format), args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.logger.Warn().Msgf(fmt.Sprintf("%-40s\t", format), args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.logger.Error().Msgf(fmt.Sprintf("%-40s\t", format), args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.logger.Debug().Msgf(fmt.Sprintf("%-40s\t", format), args...)
}

func (l *Logger) Fatal(format string, args ...any) {
	l.logger.Fatal().Msgf(fmt.Sprintf("%-40s\t", format), args...)
}
