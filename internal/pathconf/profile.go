package pathconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// tempFile is the subset of *os.File used for atomic rewrites.
type tempFile interface {
	Name() string
	WriteString(s string) (int, error)
	Chmod(mode os.FileMode) error
	Sync() error
	Close() error
}

var createTemp = func(dir, pattern string) (tempFile, error) {
	return os.CreateTemp(dir, pattern)
}

// HasLine reports whether the file at path contains line, ignoring
// surrounding whitespace. A missing file has no lines.
func HasLine(path, line string) (bool, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	want := strings.TrimSpace(line)
	for _, l := range trimmedLines(string(data)) {
		if l == want {
			return true, nil
		}
	}

	return false, nil
}

// AppendLine appends a marker comment and line to the file at path. The file
// is rewritten through a temporary file and renamed into place, keeping its
// original permissions. A symlinked profile is updated at its target.
func AppendLine(path, marker, line string) error {
	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}

	existing, err := os.ReadFile(filepath.Clean(target))
	if err != nil && !os.IsNotExist(err) {
		return &PersistError{Path: path, Cause: fmt.Errorf("reading existing file: %w", err)}
	}

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(target); statErr == nil {
		mode = info.Mode().Perm()
	}

	var b strings.Builder
	b.Write(existing)

	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n%s\n%s\n", marker, line)

	tmp, err := createTemp(filepath.Dir(target), ".nexus-install-tmp-*")
	if err != nil {
		return &PersistError{Path: path, Cause: fmt.Errorf("creating temporary file: %w", err)}
	}

	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()

		return &PersistError{Path: path, Cause: fmt.Errorf("writing temporary file: %w", err)}
	}

	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()

		return &PersistError{Path: path, Cause: fmt.Errorf("setting mode: %w", err)}
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()

		return &PersistError{Path: path, Cause: fmt.Errorf("syncing file: %w", err)}
	}

	if err := tmp.Close(); err != nil {
		return &PersistError{Path: path, Cause: fmt.Errorf("closing temporary file: %w", err)}
	}

	if err := os.Rename(tmpPath, target); err != nil {
		return &PersistError{Path: path, Cause: fmt.Errorf("renaming temporary file: %w", err)}
	}

	return nil
}
