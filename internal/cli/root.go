package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mvp-joe/sigscan/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	verbose    bool
	layoutFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sigscan",
	Short: "Compare class signatures across decompiled server versions",
	Long: `sigscan searches the decompile output of every installed server version
for classes whose file name contains all given words, and prints a compact
signature for each match: the qualified class name and the types of the
fields declared before its first constructor.

Decompile folders are named <prefix>-<identifier> inside the build tools work
directory; identifiers are resolved to release labels through the build data
repository's history.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger(os.Stderr, verbose))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.sigscan/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&layoutFlag, "layout", "", "output layout: blocks or table (overrides config)")
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// loadConfig reads the explicit --config file when given, otherwise
// .sigscan/config.yml in the working directory, and applies flag overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.NewFileLoader(cfgFile).Load()
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if layoutFlag != "" {
		cfg.Search.Layout = layoutFlag
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
