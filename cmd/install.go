package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nexus-xyz/nexus-install/internal/config"
	"github.com/nexus-xyz/nexus-install/internal/install"
	"github.com/nexus-xyz/nexus-install/internal/pipeline"
	"github.com/nexus-xyz/nexus-install/internal/ui"
)

func runInstall(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	initLogger(cfg.Debug)

	p := pipeline.New(pipeline.Options{
		Config:   cfg,
		Elevator: install.NewSudoElevator(),
		UI:       ui.NewWriter(),
	})

	_, err = p.Run(cmd.Context())

	return err
}

// loadConfig layers the config file, environment and explicitly set flags,
// in that order, and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(os.Getenv)

	flags := cmd.Flags()

	if flags.Changed("version-tag") {
		cfg.Version = versionTag
	}

	if flags.Changed("dir") {
		cfg.InstallDirs = []string{installDir}
		cfg.DefaultDir = installDir
	}

	if flags.Changed("no-modify-path") {
		cfg.NoModifyPath = noModifyPath
	}

	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
