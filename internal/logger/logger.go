// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package logger wraps a process-wide slog logger that writes JSON records to
// the cmdl state directory and, outside the TUI, to stderr.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// TODO: Consider log rotation

var defaultLogger *slog.Logger

// LogFilePath returns the application log file location based on the XDG spec.
func LogFilePath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}
	return filepath.Join(stateDir, "cmdl", "app.log"), nil
}

// ParseLevel maps a config level name to a slog level. Unknown names yield Info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openLogFile() (io.Writer, error) {
	logFilePath, err := LogFilePath()
	if err != nil {
		return nil, err
	}
	// 0750: user rwx, group rx
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", logFilePath, err)
	}
	return file, nil
}

// InitLogger configures the default logger. The file receives records at
// level. The TUI owns the terminal, so only the CLI also writes to stderr,
// and there only warnings and errors.
func InitLogger(isTUI bool, level string) {
	var handlers []slog.Handler

	file, err := openLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "File logging disabled: %v\n", err)
	} else {
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: ParseLevel(level)}))
	}
	if !isTUI {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: max(ParseLevel(level), slog.LevelWarn)}))
	}

	switch len(handlers) {
	case 0:
		defaultLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	case 1:
		defaultLogger = slog.New(handlers[0])
	default:
		defaultLogger = slog.New(slogmulti.Fanout(handlers...))
	}
}

// SetLogger replaces the default logger instance, mostly for tests.
func SetLogger(l *slog.Logger) {
	defaultLogger = l
}

// get returns the configured logger, falling back to warn-level stderr when
// InitLogger has not run (library use and tests).
func get() *slog.Logger {
	if defaultLogger == nil {
		defaultLogger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return defaultLogger
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}
