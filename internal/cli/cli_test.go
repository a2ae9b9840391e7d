package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamidzr/stylefind/installed"
	"github.com/hamidzr/stylefind/model"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, ".cache"))
	return tmpDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := InitCLI()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedRegistry(t *testing.T, dir string, names ...string) []model.Style {
	t.Helper()
	registry, err := installed.Open(dir)
	require.NoError(t, err)
	var saved []model.Style
	for i, name := range names {
		s, err := registry.Save(context.Background(), model.Style{
			Name:      name,
			UpdateURL: "https://update.userstyles.org/" + string(rune('1'+i)) + ".md5",
		})
		require.NoError(t, err)
		saved = append(saved, s)
	}
	return saved
}

// TestInitCLI tests CLI initialization
func TestInitCLI(t *testing.T) {
	cmd := InitCLI()

	require.NotNil(t, cmd)
	assert.Equal(t, "stylefind [tab-url]", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "installed")
	assert.Contains(t, names, "cache")

	for _, flag := range []string{"init-config", "profile", "terminal", "per-page", "cache-backend"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "%s flag should exist", flag)
	}
}

// TestInitConfigFlag tests that --init-config writes a config file and exits.
func TestInitConfigFlag(t *testing.T) {
	home := isolateHome(t)

	out, err := execute(t, "--init-config")
	require.NoError(t, err)
	assert.Contains(t, out, "Config file created at:")

	_, err = os.Stat(filepath.Join(home, ".config", "stylefind", "config.yaml"))
	assert.NoError(t, err)
}

// TestInstalledList tests listing and filtering installed styles.
func TestInstalledList(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	saved := seedRegistry(t, dir, "Dark Reddit", "GitHub Dimmed")

	out, err := execute(t, "installed", "list", "--installed-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Dark Reddit")
	assert.Contains(t, out, "GitHub Dimmed")
	assert.Contains(t, out, saved[0].ID)

	out, err = execute(t, "installed", "list", "reddit", "--installed-path", dir, "--method", "direct")
	require.NoError(t, err)
	assert.Contains(t, out, "Dark Reddit")
	assert.NotContains(t, out, "GitHub Dimmed")
}

// TestInstalledListBadMethod tests that unknown matching methods are rejected.
func TestInstalledListBadMethod(t *testing.T) {
	isolateHome(t)

	_, err := execute(t, "installed", "list", "x", "--installed-path", t.TempDir(), "--method", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid search method")
}

// TestInstalledRemove tests removing a style by id.
func TestInstalledRemove(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	saved := seedRegistry(t, dir, "Dark Reddit")

	out, err := execute(t, "installed", "remove", saved[0].ID, "--installed-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "removed "+saved[0].ID)

	registry, err := installed.Open(dir)
	require.NoError(t, err)
	assert.Empty(t, registry.List())

	_, err = execute(t, "installed", "remove", saved[0].ID, "--installed-path", dir)
	assert.ErrorIs(t, err, installed.ErrNotInstalled)
}

// TestCacheCommands tests the cache maintenance subcommands on a fresh store.
func TestCacheCommands(t *testing.T) {
	isolateHome(t)
	cachePath := filepath.Join(t.TempDir(), "cache.db")

	type TestCase struct {
		name     string
		args     []string
		expected string
	}
	tests := []TestCase{
		{"stats", []string{"cache", "stats"}, "entries: 0"},
		{"clear", []string{"cache", "clear"}, "removed 0 entries"},
		{"evict", []string{"cache", "evict"}, "evicted 0 entries"},
		{"memory backend", []string{"cache", "stats", "--cache-backend", "memory"}, "bytes: 0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, append(tc.args, "--cache-path", cachePath)...)
			require.NoError(t, err)
			assert.Contains(t, out, tc.expected)
		})
	}
}

// TestTerminalModeNeedsURL tests that terminal mode refuses to start without a tab url.
func TestTerminalModeNeedsURL(t *testing.T) {
	isolateHome(t)

	_, err := execute(t, "--terminal", "--cache-backend", "memory", "--installed-path", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tab url")
}

// TestBrowse tests printing the catalog browse page for a site.
func TestBrowse(t *testing.T) {
	isolateHome(t)

	out, err := execute(t, "browse", "https://www.reddit.com/r/golang", "--base-url", "https://example.org")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/styles/browse/reddit\n", out)

	_, err = execute(t, "browse", "not a url")
	assert.Error(t, err)
}
