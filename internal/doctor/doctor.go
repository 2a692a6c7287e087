// Package doctor runs read-only diagnostics over the pieces a working
// setup needs: the settings file, the aria2c binary, and the daemon's
// RPC endpoint. Checks never mutate anything.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"aria2ctl/internal/aria2"
	"aria2ctl/internal/config"
	"aria2ctl/internal/daemon"
	"aria2ctl/internal/locate"
)

type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

type CheckResult struct {
	Name    string
	Status  Status
	Message string
}

type Report struct {
	Results []CheckResult
}

// Healthy reports whether no check failed outright. Warnings, like a
// daemon that simply is not running, do not count against health.
func (r Report) Healthy() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return false
		}
	}
	return true
}

var (
	statFn          = os.Stat
	locateFn        = func() (string, bool) { return locate.New().Locate() }
	portListeningFn = func(port int) bool { return daemon.NewProbe().PortListening(port) }
	processAliveFn  = func() bool { return daemon.NewProbe().ProcessAlive() }
	versionFn       = func(port int, secret string) (string, error) {
		session := aria2.NewSession(aria2.NewClient(aria2.Endpoint(port), secret))
		return session.Version(context.Background())
	}
)

func Run(cfg *config.Settings) Report {
	var results []CheckResult
	results = append(results, checkSettingsFile())
	results = append(results, checkExecutable(cfg))
	results = append(results, checkRPCPort(cfg.RPCPort))
	results = append(results, checkProcess())
	results = append(results, checkRPCEndpoint(cfg))
	return Report{Results: results}
}

func checkSettingsFile() CheckResult {
	name := "Settings file"
	if _, err := statFn(config.Path()); err != nil {
		return CheckResult{Name: name, Status: Warn, Message: "not found, defaults in effect"}
	}
	return CheckResult{Name: name, Status: Pass, Message: config.Path()}
}

func checkExecutable(cfg *config.Settings) CheckResult {
	name := "aria2c executable"

	if cfg.Aria2Path != "" {
		if _, err := statFn(cfg.Aria2Path); err != nil {
			return CheckResult{Name: name, Status: Fail, Message: "configured path missing: " + cfg.Aria2Path}
		}
		return CheckResult{Name: name, Status: Pass, Message: cfg.Aria2Path}
	}

	path, ok := locateFn()
	if !ok {
		return CheckResult{Name: name, Status: Fail, Message: "not found in PATH or well-known locations"}
	}
	return CheckResult{Name: name, Status: Pass, Message: path}
}

func checkRPCPort(port int) CheckResult {
	name := fmt.Sprintf("RPC port %d", port)
	if portListeningFn(port) {
		return CheckResult{Name: name, Status: Pass, Message: "listening"}
	}
	return CheckResult{Name: name, Status: Warn, Message: "nothing listening"}
}

func checkProcess() CheckResult {
	name := "Daemon process"
	if processAliveFn() {
		return CheckResult{Name: name, Status: Pass, Message: "aria2c is running"}
	}
	return CheckResult{Name: name, Status: Warn, Message: "no aria2c process"}
}

func checkRPCEndpoint(cfg *config.Settings) CheckResult {
	name := "RPC endpoint"

	if !portListeningFn(cfg.RPCPort) {
		return CheckResult{Name: name, Status: Warn, Message: "skipped, daemon not running"}
	}

	version, err := versionFn(cfg.RPCPort, cfg.RPCSecret)
	if err != nil {
		var rpcErr *aria2.RPCError
		if errors.As(err, &rpcErr) {
			return CheckResult{Name: name, Status: Fail, Message: "daemon rejected the call, check rpc_secret"}
		}
		var connErr *aria2.ConnectionError
		if errors.As(err, &connErr) {
			return CheckResult{Name: name, Status: Fail, Message: connErr.Hint()}
		}
		return CheckResult{Name: name, Status: Fail, Message: err.Error()}
	}
	return CheckResult{Name: name, Status: Pass, Message: "responding, aria2 " + version}
}
