//go:build windows

// Package process cleans up the Chrome process tree that go-rod launches for
// snapshot export.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills pid and its children with taskkill /T.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
