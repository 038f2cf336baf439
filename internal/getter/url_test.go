package getter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexus-xyz/nexus-install/internal/getter"
)

func TestReleaseAssetURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     string
		tag      string
		asset    string
		expected string
	}{
		{
			name:     "github",
			base:     "https://github.com",
			tag:      "v1.2.3",
			asset:    "nexus-network-linux-x86_64",
			expected: "https://github.com/nexus-xyz/nexus-cli/releases/download/v1.2.3/nexus-network-linux-x86_64",
		},
		{
			name:     "trailing slash trimmed",
			base:     "http://127.0.0.1:9000/",
			tag:      "v9.9.9",
			asset:    "nexus-network",
			expected: "http://127.0.0.1:9000/nexus-xyz/nexus-cli/releases/download/v9.9.9/nexus-network",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := getter.ReleaseAssetURL(tt.base, "nexus-xyz", "nexus-cli", tt.tag, tt.asset)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestLatestReleaseURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://api.github.com/repos/nexus-xyz/nexus-cli/releases/latest",
		getter.LatestReleaseURL("https://api.github.com/", "nexus-xyz", "nexus-cli"),
	)
}
