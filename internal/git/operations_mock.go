package git

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// MockGitOps is a mock implementation of Operations for testing.
type MockGitOps struct {
	Commits    []Commit
	Files      map[string][]byte // keyed by "<hash>:<path>"
	CloneError error
	LogError   error

	mu         sync.Mutex
	CloneCalls int
	LogCalls   int
}

// NewMockGitOps creates a mock with no commits.
func NewMockGitOps() *MockGitOps {
	return &MockGitOps{
		Files: make(map[string][]byte),
	}
}

// AddCommit appends a commit whose tree contains the given files.
func (m *MockGitOps) AddCommit(hash, subject string, files map[string][]byte) {
	m.Commits = append(m.Commits, Commit{Hash: hash, Subject: subject})
	for path, data := range files {
		m.Files[hash+":"+path] = data
	}
}

func (m *MockGitOps) Clone(ctx context.Context, url, branch, dest string) error {
	m.mu.Lock()
	m.CloneCalls++
	m.mu.Unlock()

	if m.CloneError != nil {
		return m.CloneError
	}
	return os.MkdirAll(dest, 0755)
}

func (m *MockGitOps) Log(ctx context.Context, repoPath string) ([]Commit, error) {
	m.mu.Lock()
	m.LogCalls++
	m.mu.Unlock()

	if m.LogError != nil {
		return nil, m.LogError
	}
	if len(m.Commits) == 0 {
		return nil, ErrNoCommits
	}
	return m.Commits, nil
}

func (m *MockGitOps) ShowFile(ctx context.Context, repoPath, hash, path string) ([]byte, error) {
	data, ok := m.Files[hash+":"+path]
	if !ok {
		return nil, fmt.Errorf("git show %s:%s: %w", hash, path, os.ErrNotExist)
	}
	return data, nil
}

// String returns a human-readable representation of the mock state.
func (m *MockGitOps) String() string {
	return fmt.Sprintf("MockGitOps{commits=%d, files=%d}", len(m.Commits), len(m.Files))
}
