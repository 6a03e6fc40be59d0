// Package search runs a class search across decompile installations.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mvp-joe/sigscan/internal/signature"
	"github.com/mvp-joe/sigscan/internal/versions"
	"golang.org/x/sync/errgroup"
)

// ErrNoTerms is returned when a search has no non-empty term.
var ErrNoTerms = errors.New("please provide at least one word")

// FileFinder returns candidate files below root matching every term.
type FileFinder interface {
	Find(root string, terms []string) ([]string, error)
}

// Result holds the signatures found in one installation.
type Result struct {
	Label      string
	Path       string
	Signatures []signature.ClassSignature
}

// Searcher extracts signatures of matching files in each installation.
type Searcher struct {
	Finder  FileFinder
	Workers int
	Logger  *slog.Logger

	// Extract defaults to signature.ExtractFile.
	Extract func(path string) (signature.ClassSignature, error)
}

// NormalizeTerms lower-cases terms and drops empty ones.
func NormalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		for _, word := range strings.Fields(t) {
			out = append(out, strings.ToLower(word))
		}
	}
	return out
}

// Search returns one Result per installation, in the given order. Files that
// cannot be read or carry no package declaration are skipped, as are files
// that do not look like a class.
func (s *Searcher) Search(ctx context.Context, installs []versions.Installation, terms []string) ([]Result, error) {
	terms = NormalizeTerms(terms)
	if len(terms) == 0 {
		return nil, ErrNoTerms
	}

	results := make([]Result, 0, len(installs))
	for _, in := range installs {
		sigs, err := s.searchOne(ctx, in.Path, terms)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Label: in.Label, Path: in.Path, Signatures: sigs})
	}
	return results, nil
}

func (s *Searcher) searchOne(ctx context.Context, root string, terms []string) ([]signature.ClassSignature, error) {
	logger := s.logger()

	files, err := s.Finder.Find(root, terms)
	if err != nil {
		return nil, err
	}
	logger.Debug("matched files", "root", root, "count", len(files))

	extract := s.Extract
	if extract == nil {
		extract = signature.ExtractFile
	}

	slots := make([]signature.ClassSignature, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sig, err := extract(path)
			if err != nil {
				logger.Debug("skipping file", "path", path, "error", err)
				return nil
			}
			if !sig.Valid {
				logger.Debug("not a class", "path", path)
				return nil
			}
			slots[i] = sig
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sigs []signature.ClassSignature
	for _, sig := range slots {
		if sig.Valid {
			sigs = append(sigs, sig)
		}
	}
	return sigs, nil
}

func (s *Searcher) workers() int {
	if s.Workers <= 0 {
		return 1
	}
	return s.Workers
}

func (s *Searcher) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
