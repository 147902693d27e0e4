package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type LogLevel uint8

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
)

// Fields is the structured context attached to a log line.
type Fields = logrus.Fields

type Logger struct {
	base   *logrus.Logger
	output *os.File
}

// NewLogger writes to stdout and, when path is set, appends to that file too.
// format is "json" or "text".
func NewLogger(level LogLevel, path, format string) (*Logger, error) {
	base := logrus.New()
	base.SetLevel(level.logrusLevel())

	if format == "json" {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FullTimestamp:   true,
		})
	}

	l := &Logger{base: base}

	if path == "" {
		base.SetOutput(os.Stdout)
		return l, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	l.output = file
	base.SetOutput(io.MultiWriter(os.Stdout, file))

	return l, nil
}

// NewWriterLogger logs to w; used where a file is not wanted.
func NewWriterLogger(level LogLevel, w io.Writer) *Logger {
	base := logrus.New()
	base.SetLevel(level.logrusLevel())
	base.SetOutput(w)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return &Logger{base: base}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.base.Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.base.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.base.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.base.Errorf(format, args...)
}

// Critical is logged at error level with a marker field; logrus' own Fatal
// and Panic levels would terminate the caller.
func (l *Logger) Critical(format string, args ...interface{}) {
	l.base.WithField("critical", true).Errorf(format, args...)
}

func (l *Logger) WithFields(fields Fields) *logrus.Entry {
	return l.base.WithFields(fields)
}

func (l *Logger) Close() error {
	if l.output == nil {
		return nil
	}
	return l.output.Close()
}

func (level LogLevel) logrusLevel() logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelInfo:
		return logrus.InfoLevel
	case LevelWarn:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

func (level LogLevel) String() string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel accepts debug, info, warn, error and critical; anything else is info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "critical":
		return LevelCritical
	default:
		return LevelInfo
	}
}

var GlobalLogger *Logger

func InitGlobalLogger(level LogLevel, path, format string) error {
	logger, err := NewLogger(level, path, format)
	if err != nil {
		return err
	}
	GlobalLogger = logger
	return nil
}

func Debug(format string, args ...interface{}) {
	if GlobalLogger != nil {
		GlobalLogger.Debug(format, args...)
	}
}

func Info(format string, args ...interface{}) {
	if GlobalLogger != nil {
		GlobalLogger.Info(format, args...)
	}
}

func Warn(format string, args ...interface{}) {
	if GlobalLogger != nil {
		GlobalLogger.Warn(format, args...)
	}
}

func Error(format string, args ...interface{}) {
	if GlobalLogger != nil {
		GlobalLogger.Error(format, args...)
	}
}

func Critical(format string, args ...interface{}) {
	if GlobalLogger != nil {
		GlobalLogger.Critical(format, args...)
	}
}

// WithFields returns an entry on the global logger, or on a discarding
// logger before InitGlobalLogger has run.
func WithFields(fields Fields) *logrus.Entry {
	if GlobalLogger != nil {
		return GlobalLogger.WithFields(fields)
	}
	return discard.WithFields(fields)
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
