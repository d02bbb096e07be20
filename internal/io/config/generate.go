package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/quotidian-org/seedtaxa/pkg/config"
)

// GenerateDefaultConfig creates a documented default config file at
// ~/.config/seedtaxa/seedtaxa.yaml. It never overwrites an existing
// file. Returns the path the config was written to.
func GenerateDefaultConfig() (string, error) {
	configPath, err := configFilePath()
	if err != nil {
		return "", err
	}
	if _, err = os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists at %s", configPath)
	}
	if err = os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaults := config.New()
	body, err := yaml.Marshal(defaults)
	if err != nil {
		return "", fmt.Errorf("failed to encode defaults: %w", err)
	}

	content := `# seedtaxa configuration file.
# This file was auto-generated. Edit as needed.
#
# Configuration precedence (highest to lowest):
#   1. CLI flags (--db, --log-level, ...)
#   2. This config file
#   3. Built-in defaults

` + string(body)

	if err = os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return configPath, nil
}

// FileExists checks if a config file exists at the default location.
func FileExists() (bool, error) {
	configPath, err := configFilePath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(configPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
