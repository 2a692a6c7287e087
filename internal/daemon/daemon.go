// Package daemon supervises the external aria2c process: probing
// whether an instance is already serving the RPC port, spawning a
// detached one when not, and tearing it down again on request.
package daemon

const (
	execName        = "aria2c"
	execNameWindows = "aria2c.exe"
)

// isDaemonProcess reports whether a process-table name belongs to the
// daemon, regardless of which platform produced it.
func isDaemonProcess(name string) bool {
	return name == execName || name == execNameWindows
}

// Config carries the launch parameters for a start attempt. Callers may
// change it between attempts; the supervisor records the last one and
// uses it for Stop and Running.
type Config struct {
	ExecutablePath string // explicit aria2c path; empty means autodetect
	RPCPort        int
	RPCSecret      string
	ExtraConfPath  string // forwarded as --conf-path when set and present
}
