// Package main is the entry point for the nexus-install CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nexus-xyz/nexus-install/cmd"
	"github.com/nexus-xyz/nexus-install/internal/pipeline"
	"github.com/nexus-xyz/nexus-install/internal/ui"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cmd.SetVersionInfo(version, commit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		ui.NewWriter().Error(err.Error())
		os.Exit(pipeline.ExitCode(err))
	}
}
