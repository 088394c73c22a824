//go:build unix

package bhost

import (
	"os"
	"syscall"
)

// SignalParent sends SIGHUP to the parent process, the way a pre-forking host is told to restart.
func SignalParent() error {
	return syscall.Kill(os.Getppid(), syscall.SIGHUP)
}

// SignalSelf sends SIGHUP to the current process, for hosts that serve in-process.
func SignalSelf() error {
	return syscall.Kill(os.Getpid(), syscall.SIGHUP)
}
