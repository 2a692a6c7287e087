package config

import (
	"fmt"
	"os"
	"path/filepath"
)

var baseDir string

func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot determine home directory: %w", err)
	}
	baseDir = filepath.Join(home, ".aria2ctl")
	return nil
}

func Dir() string {
	return baseDir
}

func Path() string {
	return filepath.Join(Dir(), "settings.json")
}
