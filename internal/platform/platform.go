// Package platform maps the host operating system and CPU architecture to
// the canonical platform tag used in release asset names.
package platform

import (
	"context"
	"log/slog"
	"strings"
)

// OS is a supported operating system name as it appears in asset names.
type OS string

// Arch is a supported CPU architecture name as it appears in asset names.
type Arch string

const (
	Linux OS = "linux"
	MacOS OS = "macos"

	X8664 Arch = "x86_64"
	ARM64 Arch = "arm64"
)

// Platform holds the resolved OS/architecture pair.
type Platform struct {
	OS   OS
	Arch Arch
}

// Tag returns the canonical "<os>-<arch>" string.
func (p Platform) Tag() string {
	return string(p.OS) + "-" + string(p.Arch)
}

func (p Platform) String() string {
	return p.Tag()
}

// HostInfo is the raw data the resolver works from, in uname terms.
type HostInfo struct {
	OS      string // uname -s, e.g. "Linux", "Darwin"
	Machine string // uname -m, e.g. "x86_64", "aarch64"
	Kernel  string // uname -r
}

// Host reports information about the machine the installer runs on.
type Host interface {
	Info(ctx context.Context) (HostInfo, error)
}

// Resolver turns host information into a Platform.
type Resolver struct {
	host   Host
	logger *slog.Logger
}

// NewResolver creates a Resolver. A nil host uses the running system.
func NewResolver(host Host, logger *slog.Logger) *Resolver {
	if host == nil {
		host = SystemHost{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{host: host, logger: logger}
}

// Resolve detects the current platform. It fails with
// *UnsupportedPlatformError or *UnsupportedEnvironmentError.
func (r *Resolver) Resolve(ctx context.Context) (Platform, error) {
	info, err := r.host.Info(ctx)
	if err != nil {
		return Platform{}, err
	}

	r.logger.Debug("host detected", "os", info.OS, "machine", info.Machine, "kernel", info.Kernel)

	p, err := Parse(info.OS, info.Machine)
	if err != nil {
		return Platform{}, err
	}

	if err := CheckKernel(info.Kernel); err != nil {
		return Platform{}, err
	}

	return p, nil
}

// Parse maps uname-style OS and machine strings to a Platform.
func Parse(osName, machine string) (Platform, error) {
	var p Platform

	switch strings.ToLower(strings.TrimSpace(osName)) {
	case "linux":
		p.OS = Linux
	case "darwin":
		p.OS = MacOS
	default:
		return Platform{}, &UnsupportedPlatformError{OS: osName, Arch: machine}
	}

	switch strings.ToLower(strings.TrimSpace(machine)) {
	case "x86_64", "amd64":
		p.Arch = X8664
	case "arm64", "aarch64":
		p.Arch = ARM64
	default:
		return Platform{}, &UnsupportedPlatformError{OS: osName, Arch: machine}
	}

	return p, nil
}

// CheckKernel rejects kernels that belong to the WSL1 compatibility layer.
// WSL2 kernels carry a "WSL2" marker and pass.
func CheckKernel(kernel string) error {
	k := strings.ToLower(kernel)
	if !strings.Contains(k, "microsoft") {
		return nil
	}

	if strings.Contains(k, "wsl2") {
		return nil
	}

	return &UnsupportedEnvironmentError{
		Kernel: kernel,
		Remedy: "WSL1 is not supported; upgrade this distribution with `wsl --set-version <distro> 2` and re-run the installer",
	}
}
