// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build windows

package dlog

// isTerminal always reports false on windows; colorized output is left to
// the terminal host (e.g. Windows Terminal's own ANSI support), matching
// how vu_windows.go keeps platform-specific behaviour in its own file.
func isTerminal(fd uintptr) bool { return false }
