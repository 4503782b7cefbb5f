package logging

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultLogger is backed by logrus. Debug/Info go to stdout, Warn and above
// to stderr; colors follow the terminal unless forced.
type DefaultLogger struct {
	base  *logrus.Logger
	entry *logrus.Entry
	err   *logrus.Logger
}

// NewDefaultLogger creates a new default logger with colored output on a TTY
func NewDefaultLogger() *DefaultLogger {
	return newDefaultLogger(os.Stdout, os.Stderr, isTerminal())
}

// NewWriterLogger sends every level to w without colors
func NewWriterLogger(w io.Writer) *DefaultLogger {
	return newDefaultLogger(w, w, false)
}

func newDefaultLogger(stdout, stderr io.Writer, colors bool) *DefaultLogger {
	out := logrus.New()
	out.SetOutput(stdout)
	out.SetLevel(logrus.InfoLevel)

	errOut := logrus.New()
	errOut.SetOutput(stderr)
	errOut.SetLevel(logrus.InfoLevel)

	d := &DefaultLogger{
		base:  out,
		entry: logrus.NewEntry(out),
		err:   errOut,
	}
	d.setColors(colors)
	return d
}

func isTerminal() bool {
	if fileInfo, _ := os.Stdout.Stat(); fileInfo != nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func (d *DefaultLogger) setColors(enabled bool) {
	formatter := &logrus.TextFormatter{
		FullTimestamp:    true,
		ForceColors:      enabled,
		DisableColors:    !enabled,
		DisableQuote:     true,
		QuoteEmptyFields: true,
	}
	d.base.SetFormatter(formatter)
	d.err.SetFormatter(formatter)
}

func toLogrusFields(fields []Fields) logrus.Fields {
	merged := make(logrus.Fields)
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	return merged
}

// errEntry rebinds the preset fields to the stderr logger
func (d *DefaultLogger) errEntry(fields []Fields) *logrus.Entry {
	return logrus.NewEntry(d.err).WithFields(d.entry.Data).WithFields(toLogrusFields(fields))
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	d.entry.WithFields(toLogrusFields(fields)).Debug(msg)
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	d.entry.WithFields(toLogrusFields(fields)).Info(msg)
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	d.errEntry(fields).Warn(msg)
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.errEntry(fields).WithError(err).Error(msg)
}

// Fatal logs and exits the process
func (d *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	d.errEntry(fields).WithError(err).Fatal(msg)
}

func (d *DefaultLogger) WithFields(fields Fields) Logger {
	return &DefaultLogger{
		base:  d.base,
		entry: d.entry.WithFields(logrus.Fields(fields)),
		err:   d.err,
	}
}

func (d *DefaultLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := fieldsFromContext(ctx); ok {
		return d.WithFields(fields)
	}
	return d
}

// SetLevel applies to this logger and every logger derived from it
func (d *DefaultLogger) SetLevel(level Level) {
	lvl := toLogrusLevel(level)
	d.base.SetLevel(lvl)
	d.err.SetLevel(lvl)
}

func toLogrusLevel(level Level) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// NoOpLogger discards everything
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (n *NoOpLogger) Info(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) Fatal(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) WithFields(fields Fields) Logger               { return n }
func (n *NoOpLogger) WithContext(ctx context.Context) Logger        { return n }
func (n *NoOpLogger) SetLevel(level Level)                          {}
