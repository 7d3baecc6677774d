package logger

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// -----------------------------------------------------------------------------

// Logger provides leveled logging for one named component
type Logger struct {
	name   string
	logger *log.Logger
}

// -----------------------------------------------------------------------------

// NewLogger creates a console Logger for a component at the given level
// ("DEBUG", "INFO", "WARNING", "ERROR"; empty means INFO).
func NewLogger(level string, name string) *Logger {
	return newLogger(level, name, &log.ConsoleWriter{
		ColorOutput:    isTerminal(),
		EndWithMessage: true,
		Writer:         os.Stdout,
	})
}

// -----------------------------------------------------------------------------

// NewSilentLogger discards everything. Used by tests.
func NewSilentLogger(name string) *Logger {
	return newLogger("ERROR", name, &log.IOWriter{Writer: io.Discard})
}

// -----------------------------------------------------------------------------

func newLogger(level string, name string, w log.Writer) *Logger {
	return &Logger{
		name: name,
		logger: &log.Logger{
			Level:      parseLevel(level),
			TimeFormat: "2006-01-02 15:04:05",
			Writer:     w,
		},
	}
}

// -----------------------------------------------------------------------------

// Named returns a sibling logger sharing level and writer.
func (l *Logger) Named(name string) *Logger {
	return &Logger{name: name, logger: l.logger}
}

// -----------------------------------------------------------------------------

// Debug logs diagnostic messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logger.Debug().Str("component", l.name).Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Warning logs recoverable problems
func (l *Logger) Warning(format string, args ...interface{}) {
	l.logger.Warn().Str("component", l.name).Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.logger.Info().Str("component", l.name).Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.logger.Error().Str("component", l.name).Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.logger.Error().Str("component", l.name).Bool("critical", true).Msgf(format, args...)
	os.Exit(1)
}

// -----------------------------------------------------------------------------

func parseLevel(level string) log.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return log.DebugLevel
	case "WARNING", "WARN":
		return log.WarnLevel
	case "ERROR", "CRITICAL":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// -----------------------------------------------------------------------------

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
