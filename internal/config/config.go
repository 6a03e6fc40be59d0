package config

import (
	"os"
	"path/filepath"
)

// Config represents the complete sigscan configuration.
// It can be loaded from .sigscan/config.yml with environment variable overrides.
type Config struct {
	BuildTools BuildToolsConfig `yaml:"buildtools" mapstructure:"buildtools"`
	Paths      PathsConfig      `yaml:"paths" mapstructure:"paths"`
	Versions   VersionsConfig   `yaml:"versions" mapstructure:"versions"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
}

// BuildToolsConfig locates the decompile output directories.
type BuildToolsConfig struct {
	WorkDir         string   `yaml:"work_dir" mapstructure:"work_dir"`                 // directory holding decompile-<id> folders
	DecompilePrefix string   `yaml:"decompile_prefix" mapstructure:"decompile_prefix"` // folder name prefix before the identifier
	Skip            []string `yaml:"skip" mapstructure:"skip"`                         // identifiers never resolved (e.g. "latest")
}

// PathsConfig defines which files are searched inside a decompile tree.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// VersionsConfig configures resolution of identifiers to release labels.
type VersionsConfig struct {
	RepoURL    string `yaml:"repo_url" mapstructure:"repo_url"`       // build data repository
	Branch     string `yaml:"branch" mapstructure:"branch"`           // branch to clone
	ClonePath  string `yaml:"clone_path" mapstructure:"clone_path"`   // where the blob-less clone lives
	InfoFile   string `yaml:"info_file" mapstructure:"info_file"`     // JSON file read at each commit
	VersionKey string `yaml:"version_key" mapstructure:"version_key"` // key of the release label in InfoFile
	HashOffset int    `yaml:"hash_offset" mapstructure:"hash_offset"` // identifier = md5(commit)[HashOffset:]
}

// SearchConfig controls searching and output.
type SearchConfig struct {
	Layout      string `yaml:"layout" mapstructure:"layout"`             // "blocks" or "table"
	SpacerWidth int    `yaml:"spacer_width" mapstructure:"spacer_width"` // width of version header lines
	Workers     int    `yaml:"workers" mapstructure:"workers"`           // concurrent extractions per version
	Watch       bool   `yaml:"watch" mapstructure:"watch"`               // invalidate file caches on change (shell only)
}

// CacheConfig bounds the per-root file list cache.
type CacheConfig struct {
	MaxRoots int `yaml:"max_roots" mapstructure:"max_roots"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		BuildTools: BuildToolsConfig{
			WorkDir:         "",
			DecompilePrefix: "decompile",
			Skip:            []string{"latest"},
		},
		Paths: PathsConfig{
			Include: []string{"**/*.java"},
			Ignore:  []string{},
		},
		Versions: VersionsConfig{
			RepoURL:    "https://hub.spigotmc.org/stash/scm/spigot/builddata.git",
			Branch:     "master",
			ClonePath:  filepath.Join(os.TempDir(), "builddata"),
			InfoFile:   "info.json",
			VersionKey: "minecraftVersion",
			HashOffset: 24,
		},
		Search: SearchConfig{
			Layout:      "blocks",
			SpacerWidth: 50,
			Workers:     8,
			Watch:       false,
		},
		Cache: CacheConfig{
			MaxRoots: 64,
		},
	}
}

// RequireWorkDir reports ErrEmptyWorkDir when no build tools work directory is set.
// Commands that only extract a single file do not need one.
func (c *Config) RequireWorkDir() error {
	if c.BuildTools.WorkDir == "" {
		return ErrEmptyWorkDir
	}
	return nil
}

// SourceExtensions extracts unique file extensions from the include patterns.
// Returns extensions with leading dot (e.g., []string{".java"}).
func (c *Config) SourceExtensions() []string {
	seen := make(map[string]bool)
	var extensions []string

	for _, pattern := range c.Paths.Include {
		if ext := extractExtension(pattern); ext != "" && !seen[ext] {
			seen[ext] = true
			extensions = append(extensions, ext)
		}
	}

	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Returns empty string if pattern doesn't match a simple extension pattern.
// Examples: "**/*.java" -> ".java", "*.kt" -> ".kt"
func extractExtension(pattern string) string {
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}
