package daemon

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/shirou/gopsutil/v3/process"
)

var statFn = os.Stat

// Handle is the supervisor's grip on a process it spawned itself.
type Handle interface {
	Running() bool
	Terminate() error
	Kill() error
}

// rpcArgs builds the daemon command line: RPC enabled on the configured
// port, authenticated by the shared secret, accepting any origin on all
// interfaces. The platform may add a detach flag.
func rpcArgs(cfg Config) []string {
	args := []string{
		"--enable-rpc",
		fmt.Sprintf("--rpc-listen-port=%d", cfg.RPCPort),
		"--rpc-secret=" + cfg.RPCSecret,
		"--rpc-allow-origin-all",
		"--rpc-listen-all=true",
	}
	args = append(args, platformArgs()...)
	if cfg.ExtraConfPath != "" {
		if _, err := statFn(cfg.ExtraConfPath); err == nil {
			args = append(args, "--conf-path="+cfg.ExtraConfPath)
		}
	}
	return args
}

// launchDetached starts the daemon so it outlives this process: stdio
// on the null device, no controlling terminal or console window, and
// the OS-level handle released immediately. Only the pid is kept.
func launchDetached(path string, args []string) (Handle, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = detachAttr()

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	pid := cmd.Process.Pid
	// Release instead of Wait: reaping would tie the child's lifetime
	// to ours.
	if err := cmd.Process.Release(); err != nil {
		return nil, err
	}
	return pidHandle(pid), nil
}

// pidHandle tracks a released process through the process table.
type pidHandle int32

func (h pidHandle) Running() bool {
	p, err := process.NewProcess(int32(h))
	if err != nil {
		return false
	}
	running, err := p.IsRunning()
	return err == nil && running
}

func (h pidHandle) Terminate() error {
	p, err := process.NewProcess(int32(h))
	if err != nil {
		return err
	}
	return p.Terminate()
}

func (h pidHandle) Kill() error {
	p, err := process.NewProcess(int32(h))
	if err != nil {
		return err
	}
	return p.Kill()
}

// terminateByName asks every process carrying the daemon's name to
// exit, covering instances this controller never spawned. Failures mean
// the process is already gone or out of reach; a cleanup sweep ignores
// both.
func terminateByName() {
	procs, err := process.Processes()
	if err != nil {
		return
	}
	self := int32(os.Getpid())
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		name, err := p.Name()
		if err != nil || !isDaemonProcess(name) {
			continue
		}
		_ = p.Terminate()
	}
}
