package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the config file at path and layers it over Default.
// A missing file is not an error; the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.AssetPrefix == "" {
		cfg.AssetPrefix = cfg.BinaryName
	}

	return cfg, nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvVersion)); v != "" {
		c.Version = v
	}

	if v := strings.TrimSpace(getenv(EnvDebug)); v != "" {
		c.Debug = truthy(v)
	}
}

// truthy treats any value that is not a recognizable false as enabled,
// so NEXUS_INSTALL_DEBUG=yes works as well as =1.
func truthy(v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}

	return b
}
