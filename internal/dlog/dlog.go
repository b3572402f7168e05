// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package dlog wraps the engine's structured logger so call sites never
// import logrus directly, the same way vu/audio keeps OpenAL out of eng.go.
package dlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// log is the package-wide logger instance. Engines embedding this package
// get a single shared logger; tests can redirect Out.
var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableColors:          !isTerminal(os.Stderr.Fd()),
		DisableLevelTruncation: true,
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLevel raises or lowers verbosity. Debugf is silent unless the caller
// opts into DebugLevel.
func SetLevel(debug bool) {
	if debug {
		log.SetLevel(logrus.DebugLevel)
		return
	}
	log.SetLevel(logrus.InfoLevel)
}

// Debugf logs tick-level tracing information. Off by default.
func Debugf(format string, args ...any) { log.Debugf(format, args...) }

// Warnf logs a recoverable-fallback event: a missing SF2 preset substituted
// by the GM fallback chain, a missing texture substituted with "-", etc.
func Warnf(format string, args ...any) { log.Warnf(format, args...) }

// Fatalf logs a fatal logic error and aborts the process. Reserved for the
// handful of conditions the spec calls genuinely unrecoverable: a BSP leaf
// with no containing subsector, an A* parent-chain link that cannot be
// found in the forward graph.
func Fatalf(format string, args ...any) { log.Fatalf(format, args...) }
