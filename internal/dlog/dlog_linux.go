// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build linux

package dlog

import "golang.org/x/sys/unix"

// isTerminal probes the file descriptor with an ioctl, same family of
// syscall vu/device's darwin/windows backends use to query terminal state.
func isTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}
