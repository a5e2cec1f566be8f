package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests for real git Operations implementation.
// These tests use actual git commands and run sequentially (NO t.Parallel()).

func TestGitOpsIntegration(t *testing.T) {
	// NO t.Parallel() - these tests run sequentially to avoid resource exhaustion
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	ctx := context.Background()
	gitOps := NewOperations("")

	t.Run("CloneShallow default branch", func(t *testing.T) {
		src := createTestGitRepo(t)
		dest := filepath.Join(t.TempDir(), "clone")

		require.NoError(t, gitOps.CloneShallow(ctx, fileURL(src), "", dest))

		content, err := os.ReadFile(filepath.Join(dest, "grammar.js"))
		require.NoError(t, err)
		assert.Contains(t, string(content), "grammar")
	})

	t.Run("CloneShallow at tag", func(t *testing.T) {
		src := createTestGitRepo(t)
		runGitCmd(t, src, "tag", "v0.1.0")
		require.NoError(t, os.WriteFile(filepath.Join(src, "grammar.js"), []byte("changed\n"), 0644))
		runGitCmd(t, src, "commit", "-am", "Change grammar")

		dest := filepath.Join(t.TempDir(), "clone")
		require.NoError(t, gitOps.CloneShallow(ctx, fileURL(src), "v0.1.0", dest))

		content, err := os.ReadFile(filepath.Join(dest, "grammar.js"))
		require.NoError(t, err)
		assert.NotContains(t, string(content), "changed")
	})

	t.Run("CloneShallow missing repository", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "clone")
		err := gitOps.CloneShallow(ctx, fileURL(filepath.Join(t.TempDir(), "missing")), "", dest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "git clone")
	})

	t.Run("HeadRevision matches source", func(t *testing.T) {
		src := createTestGitRepo(t)
		dest := filepath.Join(t.TempDir(), "clone")
		require.NoError(t, gitOps.CloneShallow(ctx, fileURL(src), "", dest))

		want := gitOutput(t, src, "rev-parse", "HEAD")
		got, err := gitOps.HeadRevision(ctx, dest)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("HeadRevision non-git directory", func(t *testing.T) {
		_, err := gitOps.HeadRevision(ctx, t.TempDir())
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		src := createTestGitRepo(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := gitOps.CloneShallow(cancelled, fileURL(src), "", filepath.Join(t.TempDir(), "clone"))
		assert.Error(t, err)
	})
}

func TestMockGitOps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mock := NewMockGitOps()
	dest := filepath.Join(t.TempDir(), "clone")

	require.NoError(t, mock.CloneShallow(ctx, "https://example.com/grammar", "v1", dest))
	require.Len(t, mock.Clones, 1)
	assert.Equal(t, CloneCall{URL: "https://example.com/grammar", Ref: "v1", Dest: dest}, mock.Clones[0])
	assert.FileExists(t, filepath.Join(dest, "grammar.js"))

	rev, err := mock.HeadRevision(ctx, dest)
	require.NoError(t, err)
	assert.Equal(t, mock.Revision, rev)
}

// Helper functions

func createTestGitRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	// Initialize repo
	cmd := exec.Command("git", "init", "-b", "main")
	cmd.Dir = dir
	require.NoError(t, cmd.Run(), "git init failed")

	// Configure git identity
	runGitCmd(t, dir, "config", "user.email", "test@example.com")
	runGitCmd(t, dir, "config", "user.name", "Test User")

	// Create initial commit
	testFile := filepath.Join(dir, "grammar.js")
	require.NoError(t, os.WriteFile(testFile, []byte("module.exports = grammar({ name: 'c' });\n"), 0644))
	runGitCmd(t, dir, "add", "grammar.js")
	runGitCmd(t, dir, "commit", "-m", "Initial commit")

	return dir
}

func runGitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
}

func gitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	require.NoError(t, err)
	return strings.TrimSpace(string(output))
}

// fileURL makes a local path cloneable with --depth.
func fileURL(path string) string {
	return "file://" + filepath.ToSlash(path)
}
