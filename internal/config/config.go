// Package config loads installer settings from an optional YAML file,
// environment variables, and built-in defaults.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Built-in release coordinates for the nexus-network binary.
const (
	DefaultOwner        = "nexus-xyz"
	DefaultRepo         = "nexus-cli"
	DefaultBinaryName   = "nexus-network"
	DefaultAPIBase      = "https://api.github.com"
	DefaultDownloadBase = "https://github.com"
	DefaultTimeout      = 60 * time.Second
)

// Environment variables recognized by the installer.
const (
	EnvDebug   = "NEXUS_INSTALL_DEBUG"
	EnvVersion = "NEXUS_INSTALL_VERSION"
)

// Config holds everything the install pipeline needs to know up front.
type Config struct {
	Owner      string `yaml:"owner"`
	Repo       string `yaml:"repo"`
	BinaryName string `yaml:"binary_name"`

	// AssetPrefix is the leading part of platform-qualified asset names.
	// Defaults to BinaryName.
	AssetPrefix string `yaml:"asset_prefix"`
	ExeSuffix   string `yaml:"exe_suffix"`

	// Version pins a release tag. Empty means the latest release.
	Version string `yaml:"version"`

	APIBase      string        `yaml:"api_base"`
	DownloadBase string        `yaml:"download_base"`
	Timeout      time.Duration `yaml:"timeout"`

	// InstallDirs is the ordered candidate list matched against PATH.
	// A leading ~ is expanded to the user's home directory.
	InstallDirs []string `yaml:"install_dirs"`
	DefaultDir  string   `yaml:"default_dir"`

	Profiles     []string `yaml:"profiles"`
	NoModifyPath bool     `yaml:"no_modify_path"`

	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Owner:        DefaultOwner,
		Repo:         DefaultRepo,
		BinaryName:   DefaultBinaryName,
		AssetPrefix:  DefaultBinaryName,
		APIBase:      DefaultAPIBase,
		DownloadBase: DefaultDownloadBase,
		Timeout:      DefaultTimeout,
		InstallDirs: []string{
			"~/.local/bin",
			"/usr/local/bin",
			"/usr/bin",
		},
		DefaultDir: "~/.nexus/bin",
	}
}

// DefaultConfigDir returns the default configuration directory, respecting XDG_CONFIG_HOME.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "nexus-install")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "nexus-install")
	}

	return filepath.Join(home, ".config", "nexus-install")
}

// DefaultPath returns the default location of the config file.
func DefaultPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}
