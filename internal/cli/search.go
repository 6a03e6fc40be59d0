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

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <word>...",
	Short: "Search every installed version for classes",
	Long: `Search lists, for every installed version in ascending order, the classes
whose file name contains all given words (case-insensitive).

Examples:
  # Signatures of every class with "zombie" in its name
  sigscan search zombie

  # Narrow down with more words, print as a table
  sigscan search entity player --layout table
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
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
	if len(installs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "There are no versions available yet, please invoke build-tools at least once.")
		return nil
	}

	return a.runSearch(ctx, installs, args)
}
