// Package locate finds the aria2c executable on the local system.
//
// Candidates are checked in a fixed priority order: well-known install
// directories first, then the directory holding this binary (for
// bundled layouts), then every PATH entry. The order matters when
// several installs coexist; the well-known install wins.
package locate

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/kardianos/osext"
	"github.com/spf13/afero"
)

type Locator struct {
	fs      afero.Fs
	getenv  func(string) string
	execDir func() (string, error)
	home    func() (string, error)
	goos    string
}

func New() *Locator {
	return &Locator{
		fs:      afero.NewOsFs(),
		getenv:  os.Getenv,
		execDir: osext.ExecutableFolder,
		home:    os.UserHomeDir,
		goos:    runtime.GOOS,
	}
}

// ExecName is the daemon's executable name on this platform.
func (l *Locator) ExecName() string {
	if l.goos == "windows" {
		return "aria2c.exe"
	}
	return "aria2c"
}

// Locate returns the first existing candidate. The false return is the
// legitimate not-installed signal, not an error; callers disable the
// start path on it.
func (l *Locator) Locate() (string, bool) {
	for _, candidate := range l.candidates() {
		if ok, _ := afero.Exists(l.fs, candidate); ok {
			return candidate, true
		}
	}
	return "", false
}

func (l *Locator) candidates() []string {
	dirs := l.wellKnownDirs()

	if dir, err := l.execDir(); err == nil && dir != "" {
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, filepath.SplitList(l.getenv("PATH"))...)

	name := l.ExecName()
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out
}

func (l *Locator) wellKnownDirs() []string {
	if l.goos == "windows" {
		dirs := []string{
			`C:\Program Files\Aria2`,
			`C:\aria2`,
		}
		if home, err := l.home(); err == nil {
			dirs = append(dirs, filepath.Join(home, "AppData", "Local", "Programs", "aria2"))
		}
		return dirs
	}
	return []string{"/usr/bin", "/usr/local/bin", "/opt/homebrew/bin"}
}
