package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNoCommits is returned by Log when the repository has no commits to list.
var ErrNoCommits = errors.New("no commits")

// Commit is one line of a oneline log: the full hash and the subject.
type Commit struct {
	Hash    string
	Subject string
}

// Operations defines the interface for git operations.
// This allows mocking git commands in tests.
type Operations interface {
	// Clone creates a blob-less, no-checkout, single-branch clone of url at dest.
	Clone(ctx context.Context, url, branch, dest string) error

	// Log lists the commits reachable from HEAD, newest first.
	Log(ctx context.Context, repoPath string) ([]Commit, error)

	// ShowFile returns the contents of path at the given commit.
	ShowFile(ctx context.Context, repoPath, hash, path string) ([]byte, error)
}

// gitOps is the real implementation using exec.Command.
type gitOps struct{}

// NewOperations returns the default git operations implementation.
func NewOperations() Operations {
	return &gitOps{}
}

func (g *gitOps) Clone(ctx context.Context, url, branch, dest string) error {
	args := []string{"clone", "--filter=blob:none", "--no-checkout", "--single-branch"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, url, dest)

	cmd := exec.CommandContext(ctx, "git", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git clone %s: %w: %s", url, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (g *gitOps) Log(ctx context.Context, repoPath string) ([]Commit, error) {
	cmd := exec.CommandContext(ctx, "git", "--no-pager", "log", "--decorate=no", "--no-color", "--pretty=oneline")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git log in %s: %w", repoPath, err)
	}

	commits := ParseOneline(string(output))
	if len(commits) == 0 {
		return nil, ErrNoCommits
	}
	return commits, nil
}

func (g *gitOps) ShowFile(ctx context.Context, repoPath, hash, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", "--no-pager", "show", hash+":"+path)
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git show %s:%s: %w", hash, path, err)
	}
	return output, nil
}

// ParseOneline parses `git log --pretty=oneline` output.
// Blank lines are skipped; a line without a subject yields an empty Subject.
func ParseOneline(output string) []Commit {
	var commits []Commit

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hash, subject, _ := strings.Cut(line, " ")
		commits = append(commits, Commit{Hash: hash, Subject: subject})
	}

	return commits
}
