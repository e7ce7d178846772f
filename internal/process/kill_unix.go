//go:build !windows

// Package process cleans up the Chrome process tree that go-rod launches for
// snapshot export.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, taking
// Chrome's renderer and GPU helpers down with it. Non-positive PIDs are
// ignored: -0 would target our own group.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; launcher.Kill() is the fallback.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
