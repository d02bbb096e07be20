// Package config provides I/O operations for loading configuration from
// files and flags. This is an impure package that handles file system
// and flag operations.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quotidian-org/seedtaxa/pkg/config"
)

// Load reads configuration from a YAML file over the built-in defaults.
// If configPath is empty, it searches default locations:
//   - ./seedtaxa.yaml
//   - ~/.config/seedtaxa/seedtaxa.yaml
//
// A missing file is not an error unless it was named explicitly.
func Load(configPath string) (*config.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(config.AppName)
		v.AddConfigPath(".")
		if dir, err := config.ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return config.New(), nil
		}
		if configPath != "" || !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return config.New(), nil
	}

	var fileCfg config.Config
	if err := v.Unmarshal(&fileCfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply the file's values as options over the defaults, so fields
	// the file omits keep their default values and invalid values are
	// rejected with a warning instead of silently zeroing the config.
	cfg := config.New()
	cfg.Update(fileCfg.ToOptions())
	return cfg, nil
}

// BindFlags overrides config values with CLI flags. Flags take
// precedence over config file values.
func BindFlags(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	var opts []config.Option
	if v.IsSet("db") {
		opts = append(opts, config.OptDatabasePath(v.GetString("db")))
	}
	if v.IsSet("log-level") {
		opts = append(opts, config.OptLogLevel(v.GetString("log-level")))
	}
	if v.IsSet("log-format") {
		opts = append(opts, config.OptLogFormat(v.GetString("log-format")))
	}
	if v.IsSet("log-destination") {
		opts = append(opts,
			config.OptLogDestination(v.GetString("log-destination")))
	}
	cfg.Update(opts)
	return cfg, nil
}

// configFilePath resolves the default config file location.
func configFilePath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.AppName+".yaml"), nil
}
