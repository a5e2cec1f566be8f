package git

import (
	"context"
	"os"
	"path/filepath"
)

// MockGitOps is a mock implementation of Operations for testing.
type MockGitOps struct {
	Revision   string
	CloneError error

	// Files are written into the clone destination on a successful CloneShallow,
	// keyed by path relative to the destination.
	Files map[string]string

	// Clones records the URL and ref of each CloneShallow call.
	Clones []CloneCall
}

// CloneCall is one recorded CloneShallow invocation.
type CloneCall struct {
	URL  string
	Ref  string
	Dest string
}

// NewMockGitOps creates a mock with sensible defaults.
func NewMockGitOps() *MockGitOps {
	return &MockGitOps{
		Revision: "0123456789abcdef0123456789abcdef01234567",
		Files: map[string]string{
			"grammar.js": "module.exports = grammar({ name: 'c', rules: {} });\n",
		},
	}
}

func (m *MockGitOps) CloneShallow(ctx context.Context, url, ref, dest string) error {
	m.Clones = append(m.Clones, CloneCall{URL: url, Ref: ref, Dest: dest})
	if m.CloneError != nil {
		return m.CloneError
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for name, content := range m.Files {
		if err := os.WriteFile(filepath.Join(dest, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockGitOps) HeadRevision(ctx context.Context, repoPath string) (string, error) {
	return m.Revision, nil
}
