package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ErrInvalidInput marks user-supplied values rejected before they reach
// the daemon: unknown keys, non-numeric ports, out-of-range counts.
var ErrInvalidInput = errors.New("invalid input")

const (
	DefaultSecret = "my_secret"
	DefaultPort   = 6800

	defaultThreads = 8
	maxThreads     = 64
)

// Settings is the persisted configuration. The file keeps the keys the
// original settings format used, so an existing settings file (which
// stored every value as a string) still loads.
type Settings struct {
	Aria2Path   string // explicit aria2c path; empty means autodetect
	RPCSecret   string
	RPCPort     int
	DefaultPath string // default download directory
	Threads     int    // connections per download
	SpeedLimit  int    // KB/s, 0 means unlimited
}

func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Downloads"
	}
	return filepath.Join(home, "Downloads")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(Path())
	v.SetConfigType("json")
	v.SetDefault("aria2_path", "")
	v.SetDefault("rpc_secret", DefaultSecret)
	v.SetDefault("rpc_port", DefaultPort)
	v.SetDefault("default_path", defaultDownloadDir())
	v.SetDefault("threads", defaultThreads)
	v.SetDefault("speed_limit", 0)
	return v
}

// Load reads the settings file, falling back to defaults for anything
// missing. A missing file is not an error; the defaults are a working
// configuration.
func Load() (*Settings, error) {
	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading settings: %w", err)
			}
		}
	}

	s := &Settings{
		Aria2Path:   v.GetString("aria2_path"),
		RPCSecret:   v.GetString("rpc_secret"),
		RPCPort:     v.GetInt("rpc_port"),
		DefaultPath: v.GetString("default_path"),
		Threads:     v.GetInt("threads"),
		SpeedLimit:  v.GetInt("speed_limit"),
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings file %s: %w", Path(), err)
	}
	return s, nil
}

// Save writes the settings file, creating the config directory on first
// use. This is the only writer; nothing persists implicitly.
func (s *Settings) Save() error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	v := newViper()
	v.Set("aria2_path", s.Aria2Path)
	v.Set("rpc_secret", s.RPCSecret)
	v.Set("rpc_port", s.RPCPort)
	v.Set("default_path", s.DefaultPath)
	v.Set("threads", s.Threads)
	v.Set("speed_limit", s.SpeedLimit)

	if err := v.WriteConfigAs(Path()); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

func (s *Settings) Validate() error {
	if s.RPCPort < 1 || s.RPCPort > 65535 {
		return fmt.Errorf("%w: rpc_port %d: must be between 1 and 65535", ErrInvalidInput, s.RPCPort)
	}
	if s.Threads < 1 || s.Threads > maxThreads {
		return fmt.Errorf("%w: threads %d: must be between 1 and %d", ErrInvalidInput, s.Threads, maxThreads)
	}
	if s.SpeedLimit < 0 {
		return fmt.Errorf("%w: speed_limit %d: must be 0 (unlimited) or positive", ErrInvalidInput, s.SpeedLimit)
	}
	return nil
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{"aria2_path", "rpc_secret", "rpc_port", "default_path", "threads", "speed_limit"}
}

// Set assigns one key from its string form, coercing and validating
// numeric values. Values arrive as strings from the command line.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "aria2_path":
		s.Aria2Path = value
	case "rpc_secret":
		s.RPCSecret = value
	case "default_path":
		s.DefaultPath = value
	case "rpc_port":
		n, err := cast.ToIntE(value)
		if err != nil {
			return fmt.Errorf("%w: rpc_port %q: not a number", ErrInvalidInput, value)
		}
		s.RPCPort = n
	case "threads":
		n, err := cast.ToIntE(value)
		if err != nil {
			return fmt.Errorf("%w: threads %q: not a number", ErrInvalidInput, value)
		}
		s.Threads = n
	case "speed_limit":
		n, err := cast.ToIntE(value)
		if err != nil {
			return fmt.Errorf("%w: speed_limit %q: not a number", ErrInvalidInput, value)
		}
		s.SpeedLimit = n
	default:
		return fmt.Errorf("%w: unknown setting %q", ErrInvalidInput, key)
	}
	return s.Validate()
}

// Get returns one key's current value as a string, for display.
func (s *Settings) Get(key string) (string, error) {
	switch key {
	case "aria2_path":
		return s.Aria2Path, nil
	case "rpc_secret":
		return s.RPCSecret, nil
	case "rpc_port":
		return cast.ToString(s.RPCPort), nil
	case "default_path":
		return s.DefaultPath, nil
	case "threads":
		return cast.ToString(s.Threads), nil
	case "speed_limit":
		return cast.ToString(s.SpeedLimit), nil
	default:
		return "", fmt.Errorf("%w: unknown setting %q", ErrInvalidInput, key)
	}
}
