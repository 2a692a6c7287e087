package daemon

import (
	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Probe detects a running daemon from the outside: first by a listener
// on the RPC port, then by name in the process table. Either signal
// alone counts; the daemon may have been started by another controller
// instance or by hand, and then only one of the checks can see it.
// Enumeration failures (usually permissions) make a check inconclusive,
// never fatal.
type Probe struct {
	connections  func() ([]psnet.ConnectionStat, error)
	processNames func() ([]string, error)
}

func NewProbe() *Probe {
	return &Probe{
		connections:  func() ([]psnet.ConnectionStat, error) { return psnet.Connections("tcp") },
		processNames: listProcessNames,
	}
}

// Running reports whether a daemon instance is detectable on port.
func (p *Probe) Running(port int) bool {
	return p.PortListening(port) || p.ProcessAlive()
}

// PortListening reports whether any TCP socket is listening on port.
func (p *Probe) PortListening(port int) bool {
	conns, err := p.connections()
	if err != nil {
		return false
	}
	for _, conn := range conns {
		if conn.Status == "LISTEN" && int(conn.Laddr.Port) == port {
			return true
		}
	}
	return false
}

// ProcessAlive reports whether any process carries the daemon's
// canonical executable name.
func (p *Probe) ProcessAlive() bool {
	names, err := p.processNames()
	if err != nil {
		return false
	}
	for _, name := range names {
		if isDaemonProcess(name) {
			return true
		}
	}
	return false
}

func listProcessNames() ([]string, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			// Exited already, or not ours to inspect.
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
