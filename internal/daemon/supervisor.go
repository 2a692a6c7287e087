package daemon

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"aria2ctl/internal/locate"
)

var (
	// ErrExecutableNotFound means no aria2c binary was configured and
	// none turned up in the usual places.
	ErrExecutableNotFound = errors.New("aria2c executable not found")
	// ErrStartFailed means the daemon was spawned but never came up,
	// or could not be spawned at all.
	ErrStartFailed = errors.New("aria2c daemon failed to start")
	// ErrStopFailed means the daemon was still alive after termination,
	// kill and the name sweep.
	ErrStopFailed = errors.New("aria2c daemon failed to stop")
)

// StartState reports what Start actually did.
type StartState string

const (
	Started        StartState = "started"
	AlreadyRunning StartState = "already_running"
)

// StopState reports what Stop actually did.
type StopState string

const (
	Stopped    StopState = "stopped"
	NotRunning StopState = "not_running"
)

const (
	// startGrace is how long a freshly spawned daemon gets to bind its
	// RPC port before Start declares failure.
	startGrace = 2 * time.Second
	// stopTimeout bounds the wait for a terminated daemon to exit
	// before it is killed outright.
	stopTimeout = 5 * time.Second
	// stopSettle lets the OS reclaim the port before the final check.
	stopSettle   = 1 * time.Second
	exitPollStep = 100 * time.Millisecond
)

// Supervisor owns the aria2c daemon lifecycle: locating the binary,
// spawning it detached with RPC enabled, and taking it down again.
// Methods are safe for concurrent use.
type Supervisor struct {
	locate  func() (string, bool)
	running func(port int) bool
	launch  func(path string, args []string) (Handle, error)
	sweep   func()
	sleep   func(time.Duration)

	grace   time.Duration
	timeout time.Duration
	settle  time.Duration

	mu     sync.Mutex
	cfg    Config
	handle Handle
}

// New returns a Supervisor for the given daemon configuration. The
// config may be replaced on each Start; Stop and Running use whichever
// config the last Start recorded.
func New(cfg Config) *Supervisor {
	probe := NewProbe()
	return &Supervisor{
		locate:  func() (string, bool) { return locate.New().Locate() },
		running: probe.Running,
		launch:  launchDetached,
		sweep:   terminateByName,
		sleep:   time.Sleep,
		grace:   startGrace,
		timeout: stopTimeout,
		settle:  stopSettle,
		cfg:     cfg,
	}
}

// Start brings the daemon up with RPC enabled. An explicit
// cfg.ExecutablePath wins over discovery. Returns AlreadyRunning
// without spawning when a daemon is already serving, and Started once
// a new daemon survives the grace period with its port bound.
func (s *Supervisor) Start(cfg Config) (StartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg

	path := cfg.ExecutablePath
	if path == "" {
		found, ok := s.locate()
		if !ok {
			return "", ErrExecutableNotFound
		}
		path = found
	}

	if s.running(cfg.RPCPort) {
		return AlreadyRunning, nil
	}

	handle, err := s.launch(path, rpcArgs(cfg))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStartFailed, err)
	}
	s.sleep(s.grace)
	if !s.running(cfg.RPCPort) {
		// Spawned but gone or never bound: most likely a bad option or
		// an occupied port.
		s.handle = nil
		return "", ErrStartFailed
	}
	s.handle = handle
	return Started, nil
}

// Stop takes the daemon down: terminate the spawned process if we hold
// a handle, escalate to kill when it lingers, then sweep any remaining
// aria2c processes by name so externally started daemons go too.
func (s *Supervisor) Stop() (StopState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running(s.cfg.RPCPort) {
		return NotRunning, nil
	}

	if s.handle != nil {
		if err := s.handle.Terminate(); err != nil || !s.waitExit(s.handle) {
			_ = s.handle.Kill()
		}
		s.handle = nil
	}
	s.sweep()

	s.sleep(s.settle)
	if s.running(s.cfg.RPCPort) {
		return "", ErrStopFailed
	}
	return Stopped, nil
}

// Running reports whether a daemon is serving on the configured port
// or an aria2c process exists at all.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	port := s.cfg.RPCPort
	s.mu.Unlock()
	return s.running(port)
}

// waitExit polls the handle until the process exits or the stop
// timeout elapses.
func (s *Supervisor) waitExit(h Handle) bool {
	for waited := time.Duration(0); waited < s.timeout; waited += exitPollStep {
		if !h.Running() {
			return true
		}
		s.sleep(exitPollStep)
	}
	return !h.Running()
}
