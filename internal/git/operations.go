package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Operations defines the interface for git operations.
// This allows mocking git commands in tests.
type Operations interface {
	// CloneShallow clones url at depth 1 into dest, which must not exist yet.
	// An empty ref clones the remote's default branch.
	CloneShallow(ctx context.Context, url, ref, dest string) error

	// HeadRevision returns the commit hash checked out in repoPath.
	HeadRevision(ctx context.Context, repoPath string) (string, error)
}

// gitOps is the real implementation using exec.CommandContext.
type gitOps struct {
	bin string
}

// NewOperations returns git operations that run the given git binary.
// An empty bin means "git" from PATH.
func NewOperations(bin string) Operations {
	if bin == "" {
		bin = "git"
	}
	return &gitOps{bin: bin}
}

func (g *gitOps) CloneShallow(ctx context.Context, url, ref, dest string) error {
	args := []string{"clone", "--depth", "1", "--quiet"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, url, dest)

	cmd := exec.CommandContext(ctx, g.bin, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git clone %s failed: %w: %s", url, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (g *gitOps) HeadRevision(ctx context.Context, repoPath string) (string, error) {
	cmd := exec.CommandContext(ctx, g.bin, "rev-parse", "HEAD")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed in %s: %w", repoPath, err)
	}
	return strings.TrimSpace(string(output)), nil
}
