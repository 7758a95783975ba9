// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package logger provides a small structured logging API used by the CLI
// driver, wrapping go-kit/log the way the teacher project's own logger
// package does.
package logger

import (
	"io"

	"github.com/go-kit/kit/log"
)

// Logger specifies the logging API used across this module.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

var _ Logger = (*logger)(nil)

type logger struct {
	kitLogger log.Logger
	level     Level
}

// Level is a minimum severity below which log lines are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string ("debug", "info", "warn", "error") to a
// Level, defaulting to LevelInfo for anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// New returns a Logger that writes JSON lines to out, dropping anything
// below minLevel.
func New(out io.Writer, minLevel Level) Logger {
	l := log.NewJSONLogger(log.NewSyncWriter(out))
	l = log.With(l, "ts", log.DefaultTimestampUTC)
	return &logger{kitLogger: l, level: minLevel}
}

func (l *logger) Debug(msg string) {
	if l.level <= LevelDebug {
		l.kitLogger.Log("level", "debug", "message", msg)
	}
}

func (l *logger) Info(msg string) {
	if l.level <= LevelInfo {
		l.kitLogger.Log("level", "info", "message", msg)
	}
}

func (l *logger) Warn(msg string) {
	if l.level <= LevelWarn {
		l.kitLogger.Log("level", "warn", "message", msg)
	}
}

func (l *logger) Error(msg string) {
	if l.level <= LevelError {
		l.kitLogger.Log("level", "error", "message", msg)
	}
}
