// Package download fetches release assets into a scoped temporary workspace.
package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/nexus-xyz/nexus-install/internal/getter"
)

// Workspace is a temporary directory owned by a single run.
type Workspace struct {
	dir string
}

// NewWorkspace creates a fresh temporary directory. Callers must defer Close.
func NewWorkspace(prefix string) (*Workspace, error) {
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}

	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace path.
func (w *Workspace) Dir() string {
	return w.dir
}

// Close removes the workspace and everything in it. It is safe to call twice.
func (w *Workspace) Close() error {
	if w.dir == "" {
		return nil
	}

	err := os.RemoveAll(w.dir)
	w.dir = ""

	return err
}

// Artifact is a fully downloaded asset inside a Workspace.
type Artifact struct {
	Path       string
	URL        string
	Size       int64
	Executable bool
}

// Fetcher downloads assets into a Workspace.
type Fetcher struct {
	ws      *Workspace
	getter  *getter.Getter
	timeout time.Duration
	logger  *slog.Logger
}

// NewFetcher creates a Fetcher writing into ws. A zero timeout leaves the
// transfer bounded only by the caller's context.
func NewFetcher(ws *Workspace, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Fetcher{
		ws:      ws,
		getter:  getter.New(logger),
		timeout: timeout,
		logger:  logger,
	}
}

// Fetch downloads rawURL and marks the result executable.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Artifact, error) {
	if f.ws == nil || f.ws.Dir() == "" {
		return nil, &Error{URLs: []string{rawURL}, Cause: fmt.Errorf("workspace is closed")}
	}

	name, err := assetFileName(rawURL)
	if err != nil {
		return nil, &Error{URLs: []string{rawURL}, Cause: err}
	}

	dest := filepath.Join(f.ws.Dir(), name)

	// Leftovers from an earlier attempt would make go-getter try to resume.
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return nil, &Error{URLs: []string{rawURL}, Cause: err}
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	if err := f.getter.FetchFile(ctx, rawURL, dest); err != nil {
		_ = os.Remove(dest)

		return nil, &Error{URLs: []string{rawURL}, Cause: err}
	}

	info, err := os.Stat(dest)
	if err != nil {
		return nil, &Error{URLs: []string{rawURL}, Cause: err}
	}

	if !info.Mode().IsRegular() || info.Size() == 0 {
		_ = os.Remove(dest)

		return nil, &Error{URLs: []string{rawURL}, Cause: fmt.Errorf("empty or truncated transfer")}
	}

	if err := os.Chmod(dest, 0o755); err != nil {
		return nil, &Error{URLs: []string{rawURL}, Cause: fmt.Errorf("setting executable bit: %w", err)}
	}

	f.logger.Debug("downloaded asset", "url", rawURL, "path", dest, "bytes", info.Size())

	return &Artifact{
		Path:       dest,
		URL:        rawURL,
		Size:       info.Size(),
		Executable: true,
	}, nil
}

// FetchFirst tries primary and, only if that fails, fallback. At most two
// URLs are ever requested; if both fail the returned *Error lists both.
func (f *Fetcher) FetchFirst(ctx context.Context, primary, fallback string) (*Artifact, error) {
	a, err := f.Fetch(ctx, primary)
	if err == nil {
		return a, nil
	}

	if fallback == "" || fallback == primary || ctx.Err() != nil {
		return nil, err
	}

	f.logger.Debug("primary asset unavailable, trying fallback", "primary", primary, "fallback", fallback, "err", err)

	a, fallbackErr := f.Fetch(ctx, fallback)
	if fallbackErr == nil {
		return a, nil
	}

	var causes *multierror.Error
	causes = multierror.Append(causes, unwrapCause(err), unwrapCause(fallbackErr))

	return nil, &Error{URLs: []string{primary, fallback}, Cause: causes.ErrorOrNil()}
}

func unwrapCause(err error) error {
	var de *Error
	if errors.As(err, &de) && de.Cause != nil {
		return de.Cause
	}

	return err
}

func assetFileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing url: %w", err)
	}

	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." || strings.ContainsAny(name, `\`) {
		return "", fmt.Errorf("url %q does not name a file", rawURL)
	}

	return name, nil
}

// Error reports a failed download. URLs lists every URL that was attempted.
type Error struct {
	URLs  []string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("download failed (%s): %v", strings.Join(e.URLs, ", "), e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
