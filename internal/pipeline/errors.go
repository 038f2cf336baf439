package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/nexus-xyz/nexus-install/internal/download"
	"github.com/nexus-xyz/nexus-install/internal/install"
	"github.com/nexus-xyz/nexus-install/internal/platform"
	"github.com/nexus-xyz/nexus-install/internal/release"
)

// Process exit codes by failure kind.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitPlatform    = 2
	ExitRelease     = 3
	ExitDownload    = 4
	ExitPermission  = 5
	ExitInterrupted = 130
)

// StageError is a failure tagged with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		unsupportedPlatform *platform.UnsupportedPlatformError
		unsupportedEnv      *platform.UnsupportedEnvironmentError
		lookup              *release.LookupError
		downloadErr         *download.Error
		permission          *install.PermissionError
	)

	switch {
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.As(err, &unsupportedPlatform), errors.As(err, &unsupportedEnv):
		return ExitPlatform
	case errors.As(err, &lookup):
		return ExitRelease
	case errors.As(err, &downloadErr):
		return ExitDownload
	case errors.As(err, &permission):
		return ExitPermission
	default:
		return ExitFailure
	}
}
