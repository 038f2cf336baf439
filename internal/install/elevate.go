package install

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// Elevator performs file operations with escalated privileges.
type Elevator interface {
	// Available reports whether elevation can be attempted at all.
	Available(ctx context.Context) bool
	// Install copies src to dst with mode 0755, replacing dst atomically.
	Install(ctx context.Context, src, dst string) error
}

// CommandRunner executes an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// SudoElevator escalates through sudo. The terminal stays attached so sudo
// can prompt for a password.
type SudoElevator struct {
	sudo string
	run  CommandRunner
}

// NewSudoElevator looks up sudo on PATH. Available reports false when it is
// missing or when the process already runs as root.
func NewSudoElevator() *SudoElevator {
	path, err := exec.LookPath("sudo")
	if err != nil || os.Geteuid() == 0 {
		path = ""
	}

	return &SudoElevator{sudo: path, run: runAttached}
}

// NewSudoElevatorWithRunner creates a SudoElevator using the given sudo
// path and runner. Intended for testing.
func NewSudoElevatorWithRunner(sudo string, run CommandRunner) *SudoElevator {
	return &SudoElevator{sudo: sudo, run: run}
}

// Available reports whether a sudo binary was found.
func (s *SudoElevator) Available(context.Context) bool {
	return s.sudo != ""
}

// Install copies src next to dst under a temporary name and renames it into
// place, all through sudo.
func (s *SudoElevator) Install(ctx context.Context, src, dst string) error {
	if s.sudo == "" {
		return fmt.Errorf("sudo is not available")
	}

	dir := filepath.Dir(dst)
	tmp := filepath.Join(dir, "."+filepath.Base(dst)+".tmp-"+strconv.Itoa(os.Getpid()))

	if err := s.run(ctx, s.sudo, "mkdir", "-p", dir); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	if err := s.run(ctx, s.sudo, "install", "-m", "0755", src, tmp); err != nil {
		_ = s.run(context.WithoutCancel(ctx), s.sudo, "rm", "-f", tmp)

		return fmt.Errorf("copying to %s: %w", tmp, err)
	}

	if err := s.run(ctx, s.sudo, "mv", "-f", tmp, dst); err != nil {
		_ = s.run(context.WithoutCancel(ctx), s.sudo, "rm", "-f", tmp)

		return fmt.Errorf("replacing %s: %w", dst, err)
	}

	return nil
}

func runAttached(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // arguments are install paths chosen by this program
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
