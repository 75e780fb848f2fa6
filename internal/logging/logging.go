// Package logging builds the process logger. The TUI owns the terminal, so
// logs go to a file unless stderr is asked for explicitly.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Stderr selects logging to standard error instead of a file.
const Stderr = "-"

// Options configures New.
type Options struct {
	// File is the log path. Empty uses DefaultPath; Stderr logs to stderr.
	File  string
	Level string
}

// New returns a JSON logger and a closer for its sink.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		l, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("parse log level: %w", err)
		}
		level = l
	}

	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)
	switch opts.File {
	case Stderr:
		out = os.Stderr
	default:
		path := opts.File
		if path == "" {
			p, err := DefaultPath()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger, closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// DefaultPath resolves the log file in priority order:
// 1. $XDG_STATE_HOME/quizdesk/quizdesk.log
// 2. ~/.local/state/quizdesk/quizdesk.log
func DefaultPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "quizdesk", "quizdesk.log"), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
