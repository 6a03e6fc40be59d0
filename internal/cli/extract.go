package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/mvp-joe/sigscan/internal/signature"
	"github.com/spf13/cobra"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file>...",
	Short: "Print the signature of source files",
	Long: `Extract prints the signature of each given source file without looking at
installed versions. Files that do not declare a class are reported as such.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if err := runExtract(cmd.OutOrStdout(), path); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(out io.Writer, path string) error {
	sig, err := signature.ExtractFile(path)
	if errors.Is(err, signature.ErrMalformedInput) {
		fmt.Fprintf(out, "%s: no package declaration\n", path)
		return nil
	}
	if err != nil {
		return err
	}

	if !sig.Valid {
		fmt.Fprintf(out, "%s: not a class\n", path)
		return nil
	}

	fmt.Fprintln(out, sig.String())
	return nil
}
