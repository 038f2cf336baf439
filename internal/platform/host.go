package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// SystemHost reads host information from the running system via gopsutil.
// The zero value reads the real kernel.
type SystemHost struct {
	kernelVersion func(ctx context.Context) (string, error)
	kernelArch    func() (string, error)
}

// NewSystemHostWithReaders creates a SystemHost with custom kernel release
// and machine readers. Intended for testing.
func NewSystemHostWithReaders(kernelVersion func(context.Context) (string, error), kernelArch func() (string, error)) SystemHost {
	return SystemHost{kernelVersion: kernelVersion, kernelArch: kernelArch}
}

// Info returns the uname-style OS, machine, and kernel release strings.
// An empty machine falls back to the Go runtime value. A kernel release
// that cannot be read is an error, since environment checks depend on it.
func (s SystemHost) Info(ctx context.Context) (HostInfo, error) {
	kernelVersion := s.kernelVersion
	if kernelVersion == nil {
		kernelVersion = host.KernelVersionWithContext
	}

	kernelArch := s.kernelArch
	if kernelArch == nil {
		kernelArch = host.KernelArch
	}

	kernel, err := kernelVersion(ctx)
	if err != nil {
		return HostInfo{}, fmt.Errorf("reading kernel release: %w", err)
	}

	if kernel == "" {
		return HostInfo{}, fmt.Errorf("reading kernel release: empty result")
	}

	machine, err := kernelArch()
	if err != nil {
		return HostInfo{}, fmt.Errorf("reading machine architecture: %w", err)
	}

	if machine == "" {
		machine = runtime.GOARCH
	}

	return HostInfo{
		OS:      runtime.GOOS,
		Machine: machine,
		Kernel:  kernel,
	}, nil
}
