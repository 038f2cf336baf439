package install

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nexus-xyz/nexus-install/internal/download"
)

// Installed describes the binary placed on disk.
type Installed struct {
	Path     string
	Elevated bool
}

// Installer copies artifacts into their target directory.
type Installer struct {
	binaryName string
	elevator   Elevator
	logger     *slog.Logger
}

// New creates an Installer for binaryName. elevator may be nil, in which
// case targets that need elevation fail with *PermissionError.
func New(binaryName string, elevator Elevator, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Installer{
		binaryName: binaryName,
		elevator:   elevator,
		logger:     logger,
	}
}

// Resolve picks the target directory and determines whether writing to it
// needs elevated privileges.
func (i *Installer) Resolve(candidates, pathEntries []string, fallback string) Target {
	t := SelectTarget(candidates, pathEntries, fallback)
	if t.Dir != "" {
		t.RequiresElevation = !Writable(t.Dir)
	}

	i.logger.Debug("install target selected",
		"dir", t.Dir,
		"in_path", t.ExistsInPath,
		"requires_elevation", t.RequiresElevation,
	)

	return t
}

// Install places the artifact at <t.Dir>/<binaryName> with mode 0755,
// replacing any existing file atomically.
func (i *Installer) Install(ctx context.Context, a *download.Artifact, t Target) (*Installed, error) {
	if t.Dir == "" {
		return nil, fmt.Errorf("no install directory selected")
	}

	if err := checkArtifact(a); err != nil {
		return nil, err
	}

	dst := filepath.Join(t.Dir, i.binaryName)

	if t.RequiresElevation {
		if i.elevator == nil || !i.elevator.Available(ctx) {
			return nil, &PermissionError{Dir: t.Dir}
		}

		i.logger.Debug("installing with elevated privileges", "dst", dst)

		if err := i.elevator.Install(ctx, a.Path, dst); err != nil {
			return nil, fmt.Errorf("elevated install to %s: %w", dst, err)
		}

		return &Installed{Path: dst, Elevated: true}, nil
	}

	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		if os.IsPermission(err) {
			return nil, &PermissionError{Dir: t.Dir}
		}

		return nil, fmt.Errorf("creating %s: %w", t.Dir, err)
	}

	src, err := os.Open(a.Path)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	defer src.Close()

	if err := WriteAtomic(dst, src, 0o755); err != nil {
		if os.IsPermission(err) {
			return nil, &PermissionError{Dir: t.Dir}
		}

		return nil, err
	}

	i.logger.Debug("installed binary", "dst", dst)

	return &Installed{Path: dst}, nil
}

func checkArtifact(a *download.Artifact) error {
	if a == nil || a.Path == "" {
		return fmt.Errorf("no downloaded artifact to install")
	}

	info, err := os.Stat(a.Path)
	if err != nil {
		return fmt.Errorf("checking artifact: %w", err)
	}

	if !info.Mode().IsRegular() || info.Size() == 0 {
		return fmt.Errorf("artifact %s is empty or not a regular file", a.Path)
	}

	if a.Size > 0 && info.Size() != a.Size {
		return fmt.Errorf("artifact %s changed size since download (%d != %d bytes)", a.Path, info.Size(), a.Size)
	}

	return nil
}

// WriteAtomic writes r to a temporary file beside dst, sets perm, syncs it,
// and renames it over dst. Readers of dst see either the old file or the
// complete new one. On any error the temporary file is removed.
func WriteAtomic(dst string, r io.Reader, perm os.FileMode) error {
	dir := filepath.Dir(dst)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}

	tmpPath := tmp.Name()
	renamed := false

	defer func() {
		if !renamed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}

	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("replacing %s: %w", dst, err)
	}

	renamed = true

	return nil
}

// PermissionError reports a target directory the process cannot write to
// and cannot elevate for.
type PermissionError struct {
	Dir string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("installing into %s requires superuser permissions; re-run as root or with sudo available", e.Dir)
}
