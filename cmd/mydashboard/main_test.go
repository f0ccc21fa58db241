package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// isolateEnv points the database at a temp dir and clears settings that
// would otherwise leak in from the host.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{
		"MYDASHBOARD_GITHUB_TOKEN",
		"MYDASHBOARD_GITHUB_USERNAME",
		"MYDASHBOARD_REFRESH_SCHEDULE",
		"MYDASHBOARD_HTTP_CACHE_PATH",
		"MYDASHBOARD_SECRET_KEY",
		"MYDASHBOARD_TIMEZONE",
		"MYDASHBOARD_WEEK_START",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("MYDASHBOARD_DB_PATH", filepath.Join(dir, "test.db"))
	return dir
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "migrate", "seed", "import-posts", "healthcheck", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "version")

	require.NoError(t, err)
	assert.Equal(t, "mydashboard dev (commit: none, built: unknown)\n", out)
}

func TestMigrateCmd(t *testing.T) {
	dir := isolateEnv(t)

	out, err := runCmd(t, "migrate")

	require.NoError(t, err)
	assert.Equal(t, "schema version 1\n", out)
	_, statErr := os.Stat(filepath.Join(dir, "test.db"))
	assert.NoError(t, statErr)
}

func TestSeedCmd_Idempotent(t *testing.T) {
	isolateEnv(t)

	out, err := runCmd(t, "seed")
	require.NoError(t, err)
	assert.Equal(t, "seeded: settings=true objectives=2 key_results=5 todos=3 posts=2\n", out)

	out, err = runCmd(t, "seed")
	require.NoError(t, err)
	assert.Equal(t, "seeded: settings=false objectives=0 key_results=0 todos=0 posts=0\n", out)
}

func TestSeedCmd_File(t *testing.T) {
	dir := isolateEnv(t)
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings:\n  github_username: octocat\n"), 0o600))

	out, err := runCmd(t, "seed", "--file", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "seeded: settings=true objectives=0"), out)

	_, err = runCmd(t, "seed", "--file", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestImportPostsCmd(t *testing.T) {
	dir := isolateEnv(t)
	postsDir := filepath.Join(dir, "posts")
	require.NoError(t, os.Mkdir(postsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(postsDir, "first-post.md"),
		[]byte("---\ntitle: First\ndate: 2026-01-02\ntags: [go]\n---\n# First\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(postsDir, "notes.txt"), []byte("ignored"), 0o600))

	out, err := runCmd(t, "import-posts", postsDir)
	require.NoError(t, err)
	assert.Equal(t, "imported 1 posts from "+postsDir+"\n", out)

	_, err = runCmd(t, "import-posts")
	assert.Error(t, err)
}
