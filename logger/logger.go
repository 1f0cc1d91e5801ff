// Package logger builds the logrus loggers shared by every tool.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New creates a logger writing to stderr at the named level (error, warn, info, debug, trace).
// Unknown names fall back to info.
func New(level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(ParseLevel(level))
	return l
}

// ParseLevel maps a level name onto a logrus level
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Tee additionally writes l's output into the file at path. The returned closer
// restores the previous output and closes the file.
func Tee(l *logrus.Logger, path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	prev := l.Out
	l.SetOutput(io.MultiWriter(prev, f))
	return &teeCloser{l: l, prev: prev, f: f}, nil
}

type teeCloser struct {
	l    *logrus.Logger
	prev io.Writer
	f    *os.File
}

func (t *teeCloser) Close() error {
	t.l.SetOutput(t.prev)
	return t.f.Close()
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
