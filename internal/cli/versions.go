package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mvp-joe/sigscan/internal/git"
	"github.com/spf13/cobra"
)

// versionsCmd represents the versions command
var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List installed and downloadable versions",
	Long: `Versions detects the decompile folders in the build tools work directory,
resolves each to a release label and lists them in ascending order, followed
by the releases known to the build data repository that are not installed.`,
	Args: cobra.NoArgs,
	RunE: runVersions,
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}

func runVersions(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, git.NewOperations(), cmd.OutOrStdout(), cmd.ErrOrStderr(), nil)
	if err != nil {
		return err
	}
	defer a.close()

	installs, _, err := a.installations(ctx)
	if err != nil {
		return fmt.Errorf("failed to detect installed versions: %w", err)
	}
	return a.listVersions(ctx, installs)
}
