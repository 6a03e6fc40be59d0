package versions

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Installation is one decompile output directory with its resolved label.
type Installation struct {
	Label      string
	Identifier string
	Path       string
}

// ScanOptions describes where decompile directories live and how they are named.
type ScanOptions struct {
	WorkDir string
	Prefix  string   // directory name prefix, e.g. "decompile"
	Skip    []string // identifiers never resolved, e.g. "latest"
	Logger  *slog.Logger
}

// ScanInstallations lists directories in opts.WorkDir named "<prefix>-<id>",
// resolves each id and returns the installations ordered by Weight together
// with the identifiers that could not be resolved. When two directories
// resolve to the same label the later one (by name) wins.
func ScanInstallations(ctx context.Context, opts ScanOptions, resolver Resolver) ([]Installation, []string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(opts.WorkDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read work directory: %w", err)
	}

	skip := make(map[string]bool, len(opts.Skip))
	for _, s := range opts.Skip {
		skip[s] = true
	}

	byLabel := make(map[string]Installation)
	var unresolved []string

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !strings.HasPrefix(name, opts.Prefix) {
			continue
		}

		_, id, ok := strings.Cut(name, "-")
		if !ok || id == "" || skip[id] {
			continue
		}

		label, err := resolver.Resolve(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if label == Unknown {
			logger.Warn("could not find a version", "identifier", id)
			unresolved = append(unresolved, id)
			continue
		}

		byLabel[label] = Installation{
			Label:      label,
			Identifier: id,
			Path:       filepath.Join(opts.WorkDir, name),
		}
	}

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	Sort(labels)

	installs := make([]Installation, 0, len(labels))
	for _, label := range labels {
		installs = append(installs, byLabel[label])
	}

	return installs, unresolved, nil
}

// Missing returns the labels that have no installation, keeping label order.
func Missing(labels []string, installs []Installation) []string {
	have := make(map[string]bool, len(installs))
	for _, in := range installs {
		have[in.Label] = true
	}

	var missing []string
	for _, label := range labels {
		if !have[label] {
			missing = append(missing, label)
		}
	}
	return missing
}

// Find returns the installation with the given label.
func Find(installs []Installation, label string) (Installation, bool) {
	for _, in := range installs {
		if in.Label == label {
			return in, true
		}
	}
	return Installation{}, false
}
