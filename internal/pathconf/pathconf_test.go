package pathconf_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-xyz/nexus-install/internal/pathconf"
)

// fakeEnv is an in-memory process environment.
type fakeEnv map[string]string

func (e fakeEnv) Getenv(k string) string { return e[k] }

func (e fakeEnv) Setenv(k, v string) error {
	e[k] = v

	return nil
}

func TestSplitPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"/usr/local/bin", "/usr/bin", "/bin"}, pathconf.SplitPath("/usr/local/bin:/usr/bin::/bin"))
	assert.Empty(t, pathconf.SplitPath(""))
}

func TestContains(t *testing.T) {
	t.Parallel()

	entries := []string{"/usr/local/bin/", "/home/u/.local/bin"}

	assert.True(t, pathconf.Contains(entries, "/usr/local/bin"))
	assert.True(t, pathconf.Contains(entries, "/home/u/.local/bin/"))
	assert.False(t, pathconf.Contains(entries, "/usr/local"))
	assert.False(t, pathconf.Contains(entries, "/home/u/.local/bin2"))
}

func TestExportLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `export PATH="/home/u/.nexus/bin:$PATH"`, pathconf.ExportLine("/home/u/.nexus/bin"))
}

func TestDefaultProfiles(t *testing.T) {
	t.Parallel()

	zsh := pathconf.DefaultProfiles("/home/u", "/bin/zsh")
	assert.Equal(t, "/home/u/.zshrc", zsh[0])

	bash := pathconf.DefaultProfiles("/home/u", "/usr/bin/bash")
	assert.Equal(t, "/home/u/.bashrc", bash[0])

	other := pathconf.DefaultProfiles("/home/u", "")
	assert.Contains(t, other, "/home/u/.profile")
}

func TestEnsureOnPath_AlreadyPresent(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	profile := filepath.Join(home, ".bashrc")
	require.NoError(t, os.WriteFile(profile, []byte("# rc\n"), 0o644))

	env := fakeEnv{"PATH": "/usr/bin:/opt/bin"}
	c := pathconf.New(pathconf.Options{
		Profiles: []string{profile},
		Persist:  true,
		Getenv:   env.Getenv,
		Setenv:   env.Setenv,
	}, nil)

	res, err := c.EnsureOnPath("/opt/bin/")
	require.NoError(t, err)
	assert.True(t, res.AlreadyOnPath)
	assert.Equal(t, "/usr/bin:/opt/bin", env["PATH"])

	data, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.Equal(t, "# rc\n", string(data))
}

func TestEnsureOnPath_ExportsAndPersists(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	zshrc := filepath.Join(home, ".zshrc")
	bashrc := filepath.Join(home, ".bashrc")
	require.NoError(t, os.WriteFile(bashrc, []byte("alias ll='ls -l'"), 0o600))

	env := fakeEnv{"PATH": "/usr/bin"}
	c := pathconf.New(pathconf.Options{
		Profiles: []string{zshrc, bashrc},
		Persist:  true,
		Getenv:   env.Getenv,
		Setenv:   env.Setenv,
	}, nil)

	dir := filepath.Join(home, ".nexus", "bin")

	res, err := c.EnsureOnPath(dir)
	require.NoError(t, err)
	assert.True(t, res.Exported)
	assert.Equal(t, bashrc, res.Profile, "first existing profile is used")
	assert.Equal(t, dir+":/usr/bin", env["PATH"])

	data, err := os.ReadFile(bashrc)
	require.NoError(t, err)
	assert.Equal(t, "alias ll='ls -l'\n\n"+pathconf.Marker+"\n"+pathconf.ExportLine(dir)+"\n", string(data))

	info, err := os.Stat(bashrc)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "profile permissions are preserved")

	_, err = os.Stat(zshrc)
	assert.True(t, os.IsNotExist(err), "missing profiles are not created")
}

func TestEnsureOnPath_Idempotent(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	profile := filepath.Join(home, ".profile")
	require.NoError(t, os.WriteFile(profile, []byte("# profile\n"), 0o644))

	env := fakeEnv{"PATH": "/usr/bin"}
	c := pathconf.New(pathconf.Options{
		Profiles: []string{profile},
		Persist:  true,
		Getenv:   env.Getenv,
		Setenv:   env.Setenv,
	}, nil)

	dir := filepath.Join(home, "bin")

	first, err := c.EnsureOnPath(dir)
	require.NoError(t, err)
	assert.Equal(t, profile, first.Profile)

	second, err := c.EnsureOnPath(dir)
	require.NoError(t, err)
	assert.True(t, second.AlreadyOnPath)
	assert.Empty(t, second.Profile)

	// A fresh process whose PATH lacks dir must not append the line again.
	fresh := fakeEnv{"PATH": "/usr/bin"}
	third, err := pathconf.New(pathconf.Options{
		Profiles: []string{profile},
		Persist:  true,
		Getenv:   fresh.Getenv,
		Setenv:   fresh.Setenv,
	}, nil).EnsureOnPath(dir)
	require.NoError(t, err)
	assert.True(t, third.ProfileHadDir)
	assert.Empty(t, third.Profile)

	data, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), pathconf.ExportLine(dir)))
	assert.Equal(t, 1, strings.Count(string(data), pathconf.Marker))
}

func TestEnsureOnPath_NoProfiles(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	env := fakeEnv{}
	c := pathconf.New(pathconf.Options{
		Profiles: pathconf.DefaultProfiles(home, "/bin/bash"),
		Persist:  true,
		Getenv:   env.Getenv,
		Setenv:   env.Setenv,
	}, nil)

	res, err := c.EnsureOnPath("/opt/nexus/bin")
	require.NoError(t, err)
	assert.True(t, res.Exported)
	assert.Empty(t, res.Profile)
	assert.Equal(t, "/opt/nexus/bin", env["PATH"])

	entries, err := os.ReadDir(home)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEnsureOnPath_PersistDisabled(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	profile := filepath.Join(home, ".bashrc")
	require.NoError(t, os.WriteFile(profile, []byte(""), 0o644))

	env := fakeEnv{"PATH": "/usr/bin"}
	res, err := pathconf.New(pathconf.Options{
		Profiles: []string{profile},
		Getenv:   env.Getenv,
		Setenv:   env.Setenv,
	}, nil).EnsureOnPath("/opt/bin")
	require.NoError(t, err)
	assert.True(t, res.Exported)
	assert.Empty(t, res.Profile)

	data, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestEnsureOnPath_SetenvFailure(t *testing.T) {
	t.Parallel()

	_, err := pathconf.New(pathconf.Options{
		Getenv: func(string) string { return "/usr/bin" },
		Setenv: func(string, string) error { return errors.New("read-only env") },
	}, nil).EnsureOnPath("/opt/bin")

	var pe *pathconf.PersistError
	require.ErrorAs(t, err, &pe)
}

func TestEnsureOnPath_UnwritableProfile(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("root bypasses directory permissions")
	}

	home := filepath.Join(t.TempDir(), "home")
	require.NoError(t, os.Mkdir(home, 0o755))

	profile := filepath.Join(home, ".bashrc")
	require.NoError(t, os.WriteFile(profile, []byte("# rc\n"), 0o644))
	require.NoError(t, os.Chmod(home, 0o555))
	t.Cleanup(func() { _ = os.Chmod(home, 0o755) })

	env := fakeEnv{"PATH": "/usr/bin"}
	res, err := pathconf.New(pathconf.Options{
		Profiles: []string{profile},
		Persist:  true,
		Getenv:   env.Getenv,
		Setenv:   env.Setenv,
	}, nil).EnsureOnPath("/opt/bin")

	var pe *pathconf.PersistError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, profile, pe.Path)
	assert.True(t, res.Exported, "process PATH is still updated")
}

func TestAppendLine_Symlink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "dotfiles-bashrc")
	link := filepath.Join(dir, ".bashrc")
	require.NoError(t, os.WriteFile(target, []byte("# managed\n"), 0o644))
	require.NoError(t, os.Symlink(target, link))

	require.NoError(t, pathconf.AppendLine(link, pathconf.Marker, pathconf.ExportLine("/opt/bin")))

	fi, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, fi.Mode()&os.ModeSymlink, "symlink is preserved")

	has, err := pathconf.HasLine(target, pathconf.ExportLine("/opt/bin"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestHasLine_Missing(t *testing.T) {
	t.Parallel()

	has, err := pathconf.HasLine(filepath.Join(t.TempDir(), "nope"), "x")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestAppendLine_CloseError(t *testing.T) {
	// Not parallel: swaps the package temp-file constructor.
	restore := pathconf.SetCloseError(errors.New("disk quota exceeded"))
	t.Cleanup(restore)

	dir := t.TempDir()
	profile := filepath.Join(dir, ".bashrc")
	require.NoError(t, os.WriteFile(profile, []byte("# rc\n"), 0o644))

	err := pathconf.AppendLine(profile, pathconf.Marker, pathconf.ExportLine("/opt/bin"))

	var pe *pathconf.PersistError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, profile, pe.Path)
	assert.Contains(t, err.Error(), "disk quota exceeded")

	data, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.Equal(t, "# rc\n", string(data), "profile is untouched")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is removed")
}
