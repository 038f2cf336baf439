// Package cmd defines the CLI commands for nexus-install.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	cfgFile      string
	versionTag   string
	installDir   string
	noModifyPath bool
	timeout      time.Duration
)

// rootCmd installs the nexus-network binary when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "nexus-install",
	Short: "Install the nexus-network prover binary",
	Long: `nexus-install detects the host platform, resolves a release of
nexus-network (latest, or the one pinned with --version-tag), downloads the
matching binary, installs it into a directory on PATH and, if needed,
adds that directory to your shell profile.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInstall,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/nexus-install/config.yaml)")

	rootCmd.Flags().StringVar(&versionTag, "version-tag", "", "release tag to install instead of the latest")
	rootCmd.Flags().StringVar(&installDir, "dir", "", "install into this directory instead of searching PATH")
	rootCmd.Flags().BoolVar(&noModifyPath, "no-modify-path", false, "do not add the install directory to a shell profile")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "network timeout (default 60s)")
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if verbose || debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
