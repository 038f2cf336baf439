package platform

import "fmt"

// UnsupportedPlatformError reports an OS or architecture with no release asset.
type UnsupportedPlatformError struct {
	OS   string
	Arch string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform %s/%s (supported: Linux or Darwin on x86_64 or arm64)", e.OS, e.Arch)
}

// UnsupportedEnvironmentError reports a recognized OS running under a
// compatibility layer the binary cannot run in.
type UnsupportedEnvironmentError struct {
	Kernel string
	Remedy string
}

func (e *UnsupportedEnvironmentError) Error() string {
	return fmt.Sprintf("unsupported environment (kernel %q): %s", e.Kernel, e.Remedy)
}
