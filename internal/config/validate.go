package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
)

var (
	// ErrEmptyWorkDir indicates no build tools work directory is configured
	ErrEmptyWorkDir = errors.New("empty build tools work directory")

	// ErrInvalidLayout indicates an unsupported output layout
	ErrInvalidLayout = errors.New("invalid output layout")

	// ErrInvalidWorkers indicates a non-positive worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidSpacer indicates a negative header spacer width
	ErrInvalidSpacer = errors.New("invalid spacer width")

	// ErrInvalidHashOffset indicates an identifier offset outside an md5 hex digest
	ErrInvalidHashOffset = errors.New("invalid hash offset")

	// ErrEmptyVersionKey indicates a missing info file or version key
	ErrEmptyVersionKey = errors.New("empty version key")

	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")
)

// md5 hex digests are 32 characters long.
const md5HexLen = 32

// Validate checks that the configuration is valid and complete.
// The work directory is checked separately by RequireWorkDir.
func Validate(cfg *Config) error {
	var result *multierror.Error

	result = multierror.Append(result, validatePaths(&cfg.Paths)...)
	result = multierror.Append(result, validateVersions(&cfg.Versions)...)
	result = multierror.Append(result, validateSearch(&cfg.Search)...)

	if cfg.Cache.MaxRoots <= 0 {
		result = multierror.Append(result, fmt.Errorf("%w: max_roots must be positive, got %d", ErrInvalidCacheSettings, cfg.Cache.MaxRoots))
	}

	result.ErrorFormat = formatErrors
	return result.ErrorOrNil()
}

func validatePaths(cfg *PathsConfig) []error {
	var errs []error

	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	return errs
}

func validateVersions(cfg *VersionsConfig) []error {
	var errs []error

	if strings.TrimSpace(cfg.InfoFile) == "" || strings.TrimSpace(cfg.VersionKey) == "" {
		errs = append(errs, fmt.Errorf("%w: info_file and version_key are required", ErrEmptyVersionKey))
	}

	if cfg.HashOffset < 0 || cfg.HashOffset >= md5HexLen {
		errs = append(errs, fmt.Errorf("%w: hash_offset must be in [0, %d), got %d", ErrInvalidHashOffset, md5HexLen, cfg.HashOffset))
	}

	return errs
}

func validateSearch(cfg *SearchConfig) []error {
	var errs []error

	layout := strings.ToLower(cfg.Layout)
	if layout != "blocks" && layout != "table" {
		errs = append(errs, fmt.Errorf("%w: must be 'blocks' or 'table', got '%s'", ErrInvalidLayout, cfg.Layout))
	}

	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	if cfg.SpacerWidth < 0 {
		errs = append(errs, fmt.Errorf("%w: spacer_width cannot be negative, got %d", ErrInvalidSpacer, cfg.SpacerWidth))
	}

	return errs
}

// formatErrors combines multiple errors into a single message with clear formatting.
func formatErrors(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}

	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
