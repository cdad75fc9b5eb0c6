package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// Fields is an alias so callers do not need to import logrus directly
type Fields = logrus.Fields

var log = logrus.New()

func init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	SetLevel(ParseLevel(os.Getenv("REVMIG_LOG_LEVEL")))

	if strings.EqualFold(os.Getenv("REVMIG_LOG_FORMAT"), "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
}

// ParseLevel maps a level name to a LogLevel, defaulting to INFO
func ParseLevel(levelStr string) LogLevel {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// SetLevel sets the logging level
func SetLevel(level LogLevel) {
	switch level {
	case DEBUG:
		log.SetLevel(logrus.DebugLevel)
	case WARN:
		log.SetLevel(logrus.WarnLevel)
	case ERROR:
		log.SetLevel(logrus.ErrorLevel)
	case FATAL:
		log.SetLevel(logrus.FatalLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects log output; tests use it to capture or silence logs
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// WithFields returns an entry carrying structured fields
func WithFields(fields Fields) *logrus.Entry {
	return log.WithFields(fields)
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Fatal logs a fatal message and exits
func Fatal(format string, args ...interface{}) {
	log.Fatalf(format, args...)
}

// Debugf logs a debug message with formatting
func Debugf(format string, args ...interface{}) {
	Debug(format, args...)
}

// Infof logs an info message with formatting
func Infof(format string, args ...interface{}) {
	Info(format, args...)
}

// Warnf logs a warning message with formatting
func Warnf(format string, args ...interface{}) {
	Warn(format, args...)
}

// Errorf logs an error message with formatting
func Errorf(format string, args ...interface{}) {
	Error(format, args...)
}

// Fatalf logs a fatal message with formatting and exits
func Fatalf(format string, args ...interface{}) {
	Fatal(format, args...)
}
