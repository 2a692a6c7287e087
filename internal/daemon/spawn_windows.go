//go:build windows

package daemon

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// detachAttr detaches the child from our console so no window flashes
// up and the daemon survives this process exiting.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NO_WINDOW,
	}
}

// aria2c has no --daemon mode on Windows; detaching happens entirely
// through the creation flags.
func platformArgs() []string {
	return nil
}
