package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given root directory.
// The config file is looked up as .sigscan/config.yml (or .yaml) below rootDir.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader reading an explicit config file.
// Unlike NewLoader, a missing file is an error.
func NewFileLoader(configFile string) Loader {
	return &loader{
		configFile: configFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (SIGSCAN_*)
// 2. Config file (.sigscan/config.yml, .sigscan/config.yaml or the explicit file)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ".sigscan"))
	}

	// Replace . with _ in env var names (e.g., SIGSCAN_BUILDTOOLS_WORK_DIR)
	v.SetEnvPrefix("SIGSCAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindEnv(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable when searching - we'll use defaults + env vars
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func bindEnv(v *viper.Viper) {
	// Build tools
	v.BindEnv("buildtools.work_dir")
	v.BindEnv("buildtools.decompile_prefix")

	// Versions
	v.BindEnv("versions.repo_url")
	v.BindEnv("versions.branch")
	v.BindEnv("versions.clone_path")
	v.BindEnv("versions.info_file")
	v.BindEnv("versions.version_key")
	v.BindEnv("versions.hash_offset")

	// Search
	v.BindEnv("search.layout")
	v.BindEnv("search.spacer_width")
	v.BindEnv("search.workers")
	v.BindEnv("search.watch")

	v.BindEnv("cache.max_roots")
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("buildtools.work_dir", defaults.BuildTools.WorkDir)
	v.SetDefault("buildtools.decompile_prefix", defaults.BuildTools.DecompilePrefix)
	v.SetDefault("buildtools.skip", defaults.BuildTools.Skip)

	v.SetDefault("paths.include", defaults.Paths.Include)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("versions.repo_url", defaults.Versions.RepoURL)
	v.SetDefault("versions.branch", defaults.Versions.Branch)
	v.SetDefault("versions.clone_path", defaults.Versions.ClonePath)
	v.SetDefault("versions.info_file", defaults.Versions.InfoFile)
	v.SetDefault("versions.version_key", defaults.Versions.VersionKey)
	v.SetDefault("versions.hash_offset", defaults.Versions.HashOffset)

	v.SetDefault("search.layout", defaults.Search.Layout)
	v.SetDefault("search.spacer_width", defaults.Search.SpacerWidth)
	v.SetDefault("search.workers", defaults.Search.Workers)
	v.SetDefault("search.watch", defaults.Search.Watch)

	v.SetDefault("cache.max_roots", defaults.Cache.MaxRoots)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
