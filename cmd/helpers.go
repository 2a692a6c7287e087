package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"aria2ctl/internal/aria2"
	"aria2ctl/internal/config"
	"aria2ctl/internal/daemon"
	"aria2ctl/internal/task"
)

// supervisor is the daemon lifecycle surface the commands consume.
type supervisor interface {
	Start(cfg daemon.Config) (daemon.StartState, error)
	Stop() (daemon.StopState, error)
	Running() bool
}

// rpcSession is the slice of aria2.Session the commands consume.
type rpcSession interface {
	Enqueue(ctx context.Context, target string, opts aria2.Options) (string, error)
	Pause(ctx context.Context, gid string) error
	PauseAll(ctx context.Context) error
	Unpause(ctx context.Context, gid string) error
	UnpauseAll(ctx context.Context) error
	PurgeResults(ctx context.Context) error
	Shutdown(ctx context.Context) error
	ListAll(ctx context.Context) ([]task.Snapshot, error)
	GlobalStat(ctx context.Context) (aria2.GlobalStat, error)
	Version(ctx context.Context) (string, error)
	WaitReady(ctx context.Context, timeout time.Duration) (string, error)
}

var (
	loadSettingsFn  = loadSettings
	newSupervisorFn = func(cfg daemon.Config) supervisor { return daemon.New(cfg) }
	newSessionFn    = func(s *config.Settings) rpcSession {
		return aria2.NewSession(aria2.NewClient(aria2.Endpoint(s.RPCPort), s.RPCSecret))
	}
)

// loadSettings resolves the effective settings for one invocation:
// explicit flags beat the settings file, which beats the defaults.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	s, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("port") {
		s.RPCPort = rootPort
	}
	if cmd.Flags().Changed("secret") {
		s.RPCSecret = rootSecret
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func daemonConfig(s *config.Settings) daemon.Config {
	return daemon.Config{
		ExecutablePath: s.Aria2Path,
		RPCPort:        s.RPCPort,
		RPCSecret:      s.RPCSecret,
	}
}
