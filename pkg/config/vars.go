package config

import (
	"os"
	"path/filepath"
)

// AppName is used in generating file system paths.
const AppName = "seedtaxa"

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/seedtaxa by default.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", AppName), nil
}

// ConfigFilePath returns the full path to the seedtaxa.yaml file.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName+".yaml"), nil
}
