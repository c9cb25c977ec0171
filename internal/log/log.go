// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log provides the narrow ambient logging shape the rest of the
// module depends on, backed by logrus.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the ambient logging interface every package accepts instead of a
// concrete logger type, mirroring vdobler/ht's mock.Log: just enough to
// report what happened, not a dependency any component needs to configure.
type Log interface {
	Printf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Logger adapts a *logrus.Entry to Log.
type Logger struct {
	entry *logrus.Entry
}

// New builds a Logger from the given level name ("debug", "info", "warn",
// "error"); an unknown level falls back to info.
func New(level string) *Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return &Logger{entry: logrus.NewEntry(l)}
}

// With returns a Logger that attaches a field to every subsequent line, the
// way a per-server or per-connection logger would tag its component.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Printf(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Discard is a Log that drops everything, used as the default for
// components that received no explicit logger (tests, one-off adapters).
var Discard Log = discard{}

type discard struct{}

func (discard) Printf(string, ...interface{}) {}
func (discard) Errorf(string, ...interface{}) {}
