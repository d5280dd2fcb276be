package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Level = logrus.Level

const (
	DEBUG = logrus.DebugLevel
	INFO  = logrus.InfoLevel
	WARN  = logrus.WarnLevel
	ERROR = logrus.ErrorLevel
	FATAL = logrus.FatalLevel
)

// Fields is an alias so callers don't need to import logrus directly.
type Fields = logrus.Fields

type Logger struct {
	entry *logrus.Entry
}

func New(level Level) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &Logger{entry: logrus.NewEntry(l)}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.entry.Debugf(format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.entry.Infof(format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.entry.Warnf(format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.entry.Errorf(format, v...) }
func (l *Logger) Fatal(format string, v ...interface{}) { l.entry.Fatalf(format, v...) }

// WithFields returns a child logger that attaches fields to every entry.
func (l *Logger) WithFields(fields Fields) *Logger {
	return &Logger{entry: l.entry.WithFields(fields)}
}

// SetLevel changes the logging level
func (l *Logger) SetLevel(level Level) {
	l.entry.Logger.SetLevel(level)
}

// GetLevel returns current logging level
func (l *Logger) GetLevel() Level {
	return l.entry.Logger.GetLevel()
}

// SetOutput redirects the underlying writer. Mostly useful in tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.entry.Logger.SetOutput(w)
}

// SetJSON switches to JSON output, used in production.
func (l *Logger) SetJSON() {
	l.entry.Logger.SetFormatter(&logrus.JSONFormatter{})
}

// ParseLevel maps a level name such as "debug" or "warn" to a Level.
// Unknown names fall back to INFO.
func ParseLevel(name string) Level {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return INFO
	}
	return level
}

// Global logger instance
var defaultLogger = New(INFO)

// Default returns the process-wide logger.
func Default() *Logger { return defaultLogger }

// Package-level functions for easy access
func Debug(format string, v ...interface{}) { defaultLogger.Debug(format, v...) }
func Info(format string, v ...interface{})  { defaultLogger.Info(format, v...) }
func Warn(format string, v ...interface{})  { defaultLogger.Warn(format, v...) }
func Error(format string, v ...interface{}) { defaultLogger.Error(format, v...) }
func Fatal(format string, v ...interface{}) { defaultLogger.Fatal(format, v...) }

func WithFields(fields Fields) *Logger { return defaultLogger.WithFields(fields) }

// SetGlobalLevel sets the level for the global logger
func SetGlobalLevel(level Level) {
	defaultLogger.SetLevel(level)
}
