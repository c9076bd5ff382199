// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"log/slog"
)

// LoadOptions selects the configuration file. With both fields empty the
// file is looked up in ConfigDir, then in the working directory.
type LoadOptions struct {
	// ConfigFilePath is the --config flag. The file must exist.
	ConfigFilePath string
	// ConfigDirPath replaces the XDG_CONFIG_HOME / APPDATA lookup of ConfigDir.
	ConfigDirPath string
}

// Provider resolves and loads the cgwdict configuration. The CLI reads both
// the settings and the file they came from through it.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
	Locate(opts LoadOptions) (string, error)
}

type fileProvider struct{}

// NewProvider creates a Provider backed by CUE files and CGWDICT_* variables.
func NewProvider() Provider {
	return fileProvider{}
}

// Load reads the located file over the defaults and applies environment
// overrides.
func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, path, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	if path == "" {
		slog.Debug("no config file found, using defaults")
	} else {
		slog.Debug("loaded config", "path", path)
	}
	return cfg, nil
}

// Locate returns the file Load would read, or "" when defaults apply.
func (fileProvider) Locate(opts LoadOptions) (string, error) {
	return Locate(opts)
}
