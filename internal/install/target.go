// Package install places a downloaded binary into a directory chosen from
// an ordered candidate list, escalating privileges only when required.
package install

import (
	"os"
	"path/filepath"
	"strings"
)

// Target is the directory a binary will be installed into.
type Target struct {
	Dir               string
	RequiresElevation bool
	ExistsInPath      bool
}

// ExpandHome replaces a leading "~" in p with home.
func ExpandHome(p, home string) string {
	if p == "~" {
		return home
	}

	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}

	return p
}

// SelectTarget returns the first candidate that appears in pathEntries.
// If none does, fallback is returned with ExistsInPath unset so the caller
// knows PATH still needs to be configured. Comparison is on cleaned paths,
// never on the raw PATH string. RequiresElevation is left for the caller.
func SelectTarget(candidates, pathEntries []string, fallback string) Target {
	onPath := make(map[string]bool, len(pathEntries))
	for _, e := range pathEntries {
		if e == "" {
			continue
		}

		onPath[filepath.Clean(e)] = true
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}

		if onPath[filepath.Clean(c)] {
			return Target{Dir: filepath.Clean(c), ExistsInPath: true}
		}
	}

	if fallback == "" {
		return Target{}
	}

	return Target{Dir: filepath.Clean(fallback), ExistsInPath: onPath[filepath.Clean(fallback)]}
}

// Writable reports whether the current process can create files in dir. A
// directory that does not exist yet is judged by its nearest existing parent.
func Writable(dir string) bool {
	for d := filepath.Clean(dir); ; d = filepath.Dir(d) {
		info, err := os.Stat(d)
		if err == nil {
			return info.IsDir() && canWrite(d)
		}

		if !os.IsNotExist(err) {
			return false
		}

		if parent := filepath.Dir(d); parent == d {
			return false
		}
	}
}
