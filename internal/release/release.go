// Package release decides which release tag and asset URL to download,
// either from a pinned version or from the hosting service's latest release.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	version "github.com/hashicorp/go-version"

	"github.com/nexus-xyz/nexus-install/internal/getter"
	"github.com/nexus-xyz/nexus-install/internal/platform"
)

// Source identifies where releases live and how assets are named.
type Source struct {
	Owner        string
	Repo         string
	AssetPrefix  string
	ExeSuffix    string
	APIBase      string
	DownloadBase string
}

// Ref is the resolved release and the asset URLs to try, in order.
type Ref struct {
	Version      string
	AssetName    string
	AssetURL     string
	FallbackName string
	FallbackURL  string
}

// URLs returns the primary and fallback asset URLs.
func (r Ref) URLs() []string {
	return []string{r.AssetURL, r.FallbackURL}
}

// Locator resolves a Ref for a platform.
type Locator struct {
	source Source
	pinned string
	client *http.Client
	logger *slog.Logger
}

// NewLocator creates a Locator. An empty pinned version selects latest mode.
func NewLocator(source Source, pinned string, timeout time.Duration, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}

	client := cleanhttp.DefaultClient()
	client.Timeout = timeout

	return &Locator{
		source: source,
		pinned: strings.TrimSpace(pinned),
		client: client,
		logger: logger,
	}
}

// Locate builds the Ref for p. Pinned mode makes no network call.
func (l *Locator) Locate(ctx context.Context, p platform.Platform) (Ref, error) {
	tag := NormalizeTag(l.pinned)
	if tag == "" {
		latest, err := l.Latest(ctx)
		if err != nil {
			return Ref{}, err
		}

		tag = latest
	} else {
		l.logger.Debug("using pinned version", "version", tag)
	}

	asset := AssetName(l.source.AssetPrefix, p, l.source.ExeSuffix)
	fallback := l.source.AssetPrefix + l.source.ExeSuffix

	return Ref{
		Version:      tag,
		AssetName:    asset,
		AssetURL:     getter.ReleaseAssetURL(l.source.DownloadBase, l.source.Owner, l.source.Repo, tag, asset),
		FallbackName: fallback,
		FallbackURL:  getter.ReleaseAssetURL(l.source.DownloadBase, l.source.Owner, l.source.Repo, tag, fallback),
	}, nil
}

type latestRelease struct {
	TagName string `json:"tag_name"`
}

// Latest queries the release API once for the newest release tag.
func (l *Locator) Latest(ctx context.Context) (string, error) {
	url := getter.LatestReleaseURL(l.source.APIBase, l.source.Owner, l.source.Repo)
	l.logger.Debug("looking up latest release", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &LookupError{URL: url, Cause: err}
	}

	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", &LookupError{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &LookupError{URL: url, Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var rel latestRelease
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", &LookupError{URL: url, Cause: fmt.Errorf("decoding response: %w", err)}
	}

	tag := strings.TrimSpace(rel.TagName)
	if tag == "" {
		return "", &LookupError{URL: url, Cause: fmt.Errorf("response has no tag_name")}
	}

	l.logger.Debug("latest release resolved", "version", tag)

	return tag, nil
}

// AssetName returns the platform-qualified asset name, e.g.
// "nexus-network-linux-x86_64".
func AssetName(prefix string, p platform.Platform, suffix string) string {
	return prefix + "-" + p.Tag() + suffix
}

// NormalizeTag adds the conventional "v" prefix to bare semantic versions
// so "1.2.3" and "v1.2.3" address the same release.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" || strings.HasPrefix(tag, "v") {
		return tag
	}

	if _, err := version.NewVersion(tag); err != nil {
		return tag
	}

	return "v" + tag
}

// LookupError reports a failed latest-release query.
type LookupError struct {
	URL   string
	Cause error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("release lookup %s failed: %v", e.URL, e.Cause)
}

func (e *LookupError) Unwrap() error {
	return e.Cause
}
