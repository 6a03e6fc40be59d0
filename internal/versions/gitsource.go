package versions

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mvp-joe/sigscan/internal/git"
	"github.com/schollz/progressbar/v3"
)

// GitSource reads the identifier → label mapping from a build data
// repository. Each commit is identified by a suffix of the md5 hex digest of
// its hash; its label is a string key in a JSON file at that commit.
type GitSource struct {
	Ops        git.Operations
	RepoURL    string
	Branch     string
	ClonePath  string
	InfoFile   string
	VersionKey string
	HashOffset int

	// Progress receives a progress bar while commits are read. Nil disables it.
	Progress io.Writer
	Logger   *slog.Logger
}

// Identifier derives the short identifier of a commit hash.
func Identifier(hash string, offset int) string {
	sum := md5.Sum([]byte(hash))
	digest := hex.EncodeToString(sum[:])
	if offset < 0 || offset > len(digest) {
		offset = 0
	}
	return digest[offset:]
}

// Load clones the repository when needed and reads every commit.
// Commits without the info file or the version key are skipped.
func (s *GitSource) Load(ctx context.Context) (map[string]string, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(s.ClonePath); os.IsNotExist(err) {
		logger.Info("cloning build data", "url", s.RepoURL, "dest", s.ClonePath)
		if err := s.Ops.Clone(ctx, s.RepoURL, s.Branch, s.ClonePath); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat clone path: %w", err)
	}

	commits, err := s.Ops.Log(ctx, s.ClonePath)
	if err != nil {
		return nil, err
	}

	bar := s.newBar(len(commits))
	defer bar.Finish()

	ids := make(map[string]string, len(commits))
	for _, c := range commits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bar.Add(1)

		data, err := s.Ops.ShowFile(ctx, s.ClonePath, c.Hash, s.InfoFile)
		if err != nil {
			logger.Debug("commit has no info file", "commit", c.Hash, "error", err)
			continue
		}

		label, ok := readLabel(data, s.VersionKey)
		if !ok {
			logger.Debug("info file has no version", "commit", c.Hash, "key", s.VersionKey)
			continue
		}

		ids[Identifier(c.Hash, s.HashOffset)] = label
	}

	logger.Debug("version catalog loaded", "commits", len(commits), "identifiers", len(ids))
	return ids, nil
}

func (s *GitSource) newBar(total int) *progressbar.ProgressBar {
	w := s.Progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Loading commits"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func readLabel(data []byte, key string) (string, bool) {
	var info map[string]any
	if err := json.Unmarshal(data, &info); err != nil {
		return "", false
	}
	label, ok := info[key].(string)
	if !ok || label == "" {
		return "", false
	}
	return label, true
}
