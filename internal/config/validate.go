package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"unicode"
)

// Validate checks a Config for required fields and valid values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Owner) == "" || strings.TrimSpace(c.Repo) == "" {
		return fmt.Errorf("owner and repo are required")
	}

	if strings.TrimSpace(c.BinaryName) == "" {
		return fmt.Errorf("binary_name is required")
	}

	if strings.ContainsAny(c.BinaryName, `/\`) {
		return fmt.Errorf("binary_name %q must not contain path separators", c.BinaryName)
	}

	if strings.ContainsAny(c.AssetPrefix, `/\`) {
		return fmt.Errorf("asset_prefix %q must not contain path separators", c.AssetPrefix)
	}

	if err := requireTLS("api_base", c.APIBase); err != nil {
		return err
	}

	if err := requireTLS("download_base", c.DownloadBase); err != nil {
		return err
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}

	if c.Version != "" && !validTag(c.Version) {
		return fmt.Errorf("invalid pinned version %q: must be a release tag without slashes, whitespace, '?' or '#'", c.Version)
	}

	if len(c.InstallDirs) == 0 && strings.TrimSpace(c.DefaultDir) == "" {
		return fmt.Errorf("install_dirs or default_dir must be set")
	}

	return nil
}

// requireTLS rejects plain-http endpoints unless they point at a loopback
// address, which is what local test servers use.
func requireTLS(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%s %q is not a valid URL", field, raw)
	}

	switch u.Scheme {
	case "https":
		return nil
	case "http":
		host := u.Hostname()
		if host == "localhost" {
			return nil
		}

		if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
			return nil
		}
	}

	return fmt.Errorf("%s %q must use https", field, raw)
}

// validTag reports whether tag can be used as a single path segment of a
// release download URL. Any tag name is accepted, not only semver.
func validTag(tag string) bool {
	if tag == "." || tag == ".." {
		return false
	}

	for _, r := range tag {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(`/\?#%`, r) {
			return false
		}
	}

	return true
}
