package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mvp-joe/sigscan/internal/config"
	"github.com/mvp-joe/sigscan/internal/discovery"
	"github.com/mvp-joe/sigscan/internal/git"
	"github.com/mvp-joe/sigscan/internal/render"
	"github.com/mvp-joe/sigscan/internal/search"
	"github.com/mvp-joe/sigscan/internal/versions"
)

// app wires the configured collaborators for one command invocation.
type app struct {
	cfg      *config.Config
	out      io.Writer
	logger   *slog.Logger
	layout   render.Layout
	finder   *discovery.Finder
	catalog  *versions.Catalog
	searcher *search.Searcher
}

// newApp builds the finder, the version catalog and the searcher.
// progress receives the catalog loading bar; nil disables it.
func newApp(cfg *config.Config, ops git.Operations, out, progress io.Writer, logger *slog.Logger) (*app, error) {
	if err := cfg.RequireWorkDir(); err != nil {
		return nil, fmt.Errorf("%w: set buildtools.work_dir or SIGSCAN_BUILDTOOLS_WORK_DIR", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	layout, err := render.ParseLayout(cfg.Search.Layout)
	if err != nil {
		return nil, err
	}

	finder, err := discovery.NewFinder(cfg.Paths.Include, cfg.Paths.Ignore, cfg.Cache.MaxRoots)
	if err != nil {
		return nil, err
	}

	catalog := versions.NewCatalog(&versions.GitSource{
		Ops:        ops,
		RepoURL:    cfg.Versions.RepoURL,
		Branch:     cfg.Versions.Branch,
		ClonePath:  cfg.Versions.ClonePath,
		InfoFile:   cfg.Versions.InfoFile,
		VersionKey: cfg.Versions.VersionKey,
		HashOffset: cfg.Versions.HashOffset,
		Progress:   progress,
		Logger:     logger,
	})

	return &app{
		cfg:     cfg,
		out:     out,
		logger:  logger,
		layout:  layout,
		finder:  finder,
		catalog: catalog,
		searcher: &search.Searcher{
			Finder:  finder,
			Workers: cfg.Search.Workers,
			Logger:  logger,
		},
	}, nil
}

func (a *app) close() {
	a.finder.Close()
}

// installations resolves the decompile folders of the work directory.
func (a *app) installations(ctx context.Context) ([]versions.Installation, []string, error) {
	return versions.ScanInstallations(ctx, versions.ScanOptions{
		WorkDir: a.cfg.BuildTools.WorkDir,
		Prefix:  a.cfg.BuildTools.DecompilePrefix,
		Skip:    a.cfg.BuildTools.Skip,
		Logger:  a.logger,
	}, a.catalog)
}

// runSearch runs a search over installs and prints the results.
func (a *app) runSearch(ctx context.Context, installs []versions.Installation, terms []string) error {
	results, err := a.searcher.Search(ctx, installs, terms)
	if err != nil {
		return err
	}
	return render.Write(a.out, a.layout, results, a.cfg.Search.SpacerWidth)
}

// listVersions prints installed versions and the ones that could still be
// downloaded.
func (a *app) listVersions(ctx context.Context, installs []versions.Installation) error {
	if len(installs) == 0 {
		fmt.Fprintln(a.out, "There are no versions available yet, please invoke build-tools at least once.")
	}
	for _, in := range installs {
		fmt.Fprintf(a.out, "%-12s %s\n", in.Label, in.Path)
	}

	labels, err := a.catalog.Labels(ctx)
	if err != nil {
		return err
	}
	if missing := versions.Missing(labels, installs); len(missing) > 0 {
		fmt.Fprintf(a.out, "You could still download: %s\n", strings.Join(missing, ", "))
	}
	return nil
}
