//go:build !windows

package daemon

import "syscall"

// detachAttr drops the child into its own session so closing the
// terminal does not take the daemon down with it.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

func platformArgs() []string {
	return []string{"--daemon=true"}
}
