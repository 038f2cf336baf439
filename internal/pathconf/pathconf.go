// Package pathconf makes an install directory discoverable on PATH, both for
// the running process and for future shell sessions.
package pathconf

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Marker precedes the export line written to shell profiles.
const Marker = "# Added by nexus-install"

// SplitPath parses a PATH value into its entries, dropping empty ones.
func SplitPath(value string) []string {
	parts := filepath.SplitList(value)
	entries := make([]string, 0, len(parts))

	for _, p := range parts {
		if p != "" {
			entries = append(entries, p)
		}
	}

	return entries
}

// Contains reports whether dir is one of entries, comparing cleaned paths.
func Contains(entries []string, dir string) bool {
	want := filepath.Clean(dir)
	for _, e := range entries {
		if filepath.Clean(e) == want {
			return true
		}
	}

	return false
}

// ExportLine returns the profile line that prepends dir to PATH.
func ExportLine(dir string) string {
	return fmt.Sprintf(`export PATH="%s:$PATH"`, dir)
}

// DefaultProfiles returns the ordered profile candidates for a user. The
// profile of the login shell named by shell comes first.
func DefaultProfiles(home, shell string) []string {
	names := []string{".bashrc", ".bash_profile", ".zshrc", ".profile"}

	switch filepath.Base(shell) {
	case "zsh":
		names = []string{".zshrc", ".zprofile", ".bashrc", ".bash_profile", ".profile"}
	case "bash":
		names = []string{".bashrc", ".bash_profile", ".profile", ".zshrc"}
	}

	profiles := make([]string, 0, len(names))
	for _, n := range names {
		profiles = append(profiles, filepath.Join(home, n))
	}

	return profiles
}

// Options configures a Configurator.
type Options struct {
	// Profiles is the ordered list of candidate profile files. The first one
	// that exists is updated.
	Profiles []string
	// Persist enables writing to a profile. When false only the current
	// process PATH is changed.
	Persist bool
	// Getenv and Setenv access the process environment. Nil means os.Getenv
	// and os.Setenv.
	Getenv func(string) string
	Setenv func(string, string) error
}

// Result describes what EnsureOnPath changed.
type Result struct {
	AlreadyOnPath bool
	Exported      bool
	Profile       string // profile that was modified, if any
	ProfileHadDir bool   // profile already contained the export line
}

// Configurator ensures directories are on PATH.
type Configurator struct {
	profiles []string
	persist  bool
	getenv   func(string) string
	setenv   func(string, string) error
	logger   *slog.Logger
}

// New creates a Configurator.
func New(opts Options, logger *slog.Logger) *Configurator {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Configurator{
		profiles: opts.Profiles,
		persist:  opts.Persist,
		getenv:   opts.Getenv,
		setenv:   opts.Setenv,
		logger:   logger,
	}

	if c.getenv == nil {
		c.getenv = os.Getenv
	}

	if c.setenv == nil {
		c.setenv = os.Setenv
	}

	return c
}

// EnsureOnPath is a no-op when dir is already on the process PATH.
// Otherwise it prepends dir to the process PATH and, when persistence is
// enabled, appends an export line to the first existing profile. Profile
// failures are returned as *PersistError and are safe to treat as warnings.
func (c *Configurator) EnsureOnPath(dir string) (*Result, error) {
	current := c.getenv("PATH")
	if Contains(SplitPath(current), dir) {
		c.logger.Debug("directory already on PATH", "dir", dir)

		return &Result{AlreadyOnPath: true}, nil
	}

	res := &Result{}

	newPath := dir
	if current != "" {
		newPath = dir + string(os.PathListSeparator) + current
	}

	if err := c.setenv("PATH", newPath); err != nil {
		return res, &PersistError{Cause: fmt.Errorf("updating process PATH: %w", err)}
	}

	res.Exported = true

	if !c.persist {
		return res, nil
	}

	profile, err := firstExisting(c.profiles)
	if err != nil {
		return res, &PersistError{Path: profile, Cause: err}
	}

	if profile == "" {
		c.logger.Debug("no shell profile found, skipping PATH persistence", "candidates", c.profiles)

		return res, nil
	}

	line := ExportLine(dir)

	has, err := HasLine(profile, line)
	if err != nil {
		return res, &PersistError{Path: profile, Cause: err}
	}

	if has {
		res.ProfileHadDir = true

		return res, nil
	}

	if err := AppendLine(profile, Marker, line); err != nil {
		return res, err
	}

	c.logger.Debug("persisted PATH update", "profile", profile, "dir", dir)
	res.Profile = profile

	return res, nil
}

func firstExisting(paths []string) (string, error) {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return p, fmt.Errorf("checking profile: %w", err)
		}

		if info.Mode().IsRegular() {
			return p, nil
		}
	}

	return "", nil
}

// PersistError reports a failure to make a PATH change permanent.
type PersistError struct {
	Path  string
	Cause error
}

func (e *PersistError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("persisting PATH: %v", e.Cause)
	}

	return fmt.Sprintf("persisting PATH in %s: %v", e.Path, e.Cause)
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}

func trimmedLines(data string) []string {
	lines := strings.Split(data, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	return lines
}
