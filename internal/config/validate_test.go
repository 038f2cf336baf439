package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-xyz/nexus-install/internal/config"
)

func TestValidate_Default(t *testing.T) {
	t.Parallel()

	require.NoError(t, config.Default().Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{
			name:    "missing repo",
			mutate:  func(c *config.Config) { c.Repo = "" },
			wantErr: "owner and repo are required",
		},
		{
			name:    "missing binary name",
			mutate:  func(c *config.Config) { c.BinaryName = " " },
			wantErr: "binary_name is required",
		},
		{
			name:    "binary name with separator",
			mutate:  func(c *config.Config) { c.BinaryName = "../evil" },
			wantErr: "path separators",
		},
		{
			name:    "plain http api",
			mutate:  func(c *config.Config) { c.APIBase = "http://api.github.com" },
			wantErr: "must use https",
		},
		{
			name:   "loopback http allowed",
			mutate: func(c *config.Config) { c.DownloadBase = "http://127.0.0.1:8080" },
		},
		{
			name:    "not a url",
			mutate:  func(c *config.Config) { c.DownloadBase = "::nope" },
			wantErr: "not a valid URL",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *config.Config) { c.Timeout = 0 },
			wantErr: "timeout must be positive",
		},
		{
			name:   "semver pin",
			mutate: func(c *config.Config) { c.Version = "v1.2.3" },
		},
		{
			name:   "non-semver pin",
			mutate: func(c *config.Config) { c.Version = "nightly" },
		},
		{
			name:   "prerelease pin",
			mutate: func(c *config.Config) { c.Version = "v0.10.0-rc.1" },
		},
		{
			name:    "pin with slash",
			mutate:  func(c *config.Config) { c.Version = "v1/../../evil" },
			wantErr: "invalid pinned version",
		},
		{
			name:    "pin with whitespace",
			mutate:  func(c *config.Config) { c.Version = "v1 .2" },
			wantErr: "invalid pinned version",
		},
		{
			name:    "pin with query",
			mutate:  func(c *config.Config) { c.Version = "v1?x=1" },
			wantErr: "invalid pinned version",
		},
		{
			name:    "dot-dot pin",
			mutate:  func(c *config.Config) { c.Version = ".." },
			wantErr: "invalid pinned version",
		},
		{
			name: "no directories",
			mutate: func(c *config.Config) {
				c.InstallDirs = nil
				c.DefaultDir = ""
			},
			wantErr: "install_dirs or default_dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_PinnedTagFromEnv(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.ApplyEnv(func(k string) string {
		if k == config.EnvVersion {
			return "nightly"
		}

		return ""
	})

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "nightly", cfg.Version)
}
