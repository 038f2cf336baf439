package getter

import (
	"fmt"
	"strings"
)

// ReleaseAssetURL constructs the download URL for a named asset under a
// release tag, e.g.
//
//	ReleaseAssetURL("https://github.com", "nexus-xyz", "nexus-cli", "v1.2.3", "nexus-network-linux-x86_64")
//	→ "https://github.com/nexus-xyz/nexus-cli/releases/download/v1.2.3/nexus-network-linux-x86_64"
func ReleaseAssetURL(base, owner, repo, tag, asset string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", strings.TrimRight(base, "/"), owner, repo, tag, asset)
}

// LatestReleaseURL constructs the GitHub API URL describing the latest release.
func LatestReleaseURL(apiBase, owner, repo string) string {
	return fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimRight(apiBase, "/"), owner, repo)
}
