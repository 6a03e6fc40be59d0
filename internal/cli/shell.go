package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/mvp-joe/sigscan/internal/git"
	"github.com/mvp-joe/sigscan/internal/search"
	"github.com/mvp-joe/sigscan/internal/versions"
	"github.com/mvp-joe/sigscan/internal/watcher"
	"github.com/spf13/cobra"
)

const shellHelp = `Commands:
  search <word>...            signatures of matching classes in every version
  show <version> <word>...    print the source of a matching class
  versions                    list installed and downloadable versions
  help                        show this help
  exit                        leave the shell`

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive class search",
	Long: `Shell detects the installed versions once and then reads commands until
exit or Ctrl+C. File lists and the version catalog are cached for the whole
session; with search.watch enabled, file lists are refreshed when sources are
added or removed.

` + shellHelp,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// The prompt blocks on stdin, so Ctrl+C exits right away.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		if _, ok := <-sigChan; ok {
			fmt.Fprintln(out, "\nBye!")
			os.Exit(0)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, git.NewOperations(), out, cmd.ErrOrStderr(), nil)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Fprintln(out, "Detecting available decompiled versions...")
	installs, _, err := a.installations(ctx)
	if err != nil {
		return fmt.Errorf("failed to detect installed versions: %w", err)
	}
	if len(installs) == 0 {
		fmt.Fprintln(out, "There are no versions available yet, please invoke build-tools at least once.")
		return nil
	}

	if cfg.Search.Watch {
		stop, err := watchInstallations(ctx, a, installs)
		if err != nil {
			return err
		}
		defer stop()
	}

	return newShell(a, cmd.InOrStdin(), installs).run(ctx)
}

// watchInstallations drops cached file lists of installations whose sources change.
func watchInstallations(ctx context.Context, a *app, installs []versions.Installation) (func(), error) {
	roots := make([]string, 0, len(installs))
	for _, in := range installs {
		roots = append(roots, in.Path)
	}

	tw, err := watcher.NewTreeWatcher(roots, a.cfg.SourceExtensions(), 0, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to watch installations: %w", err)
	}

	err = tw.Start(ctx, func(changed []string) {
		for _, root := range changed {
			a.logger.Debug("sources changed, dropping file list", "root", root)
			a.finder.Invalidate(root)
		}
	})
	if err != nil {
		tw.Stop()
		return nil, err
	}

	return func() { tw.Stop() }, nil
}

// shell is the interactive command loop.
type shell struct {
	app      *app
	in       *bufio.Scanner
	out      io.Writer
	installs []versions.Installation
}

func newShell(a *app, in io.Reader, installs []versions.Installation) *shell {
	return &shell{
		app:      a,
		in:       bufio.NewScanner(in),
		out:      a.out,
		installs: installs,
	}
}

// run reads commands until exit or end of input.
func (s *shell) run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Type 'help' for a list of commands.")

	for {
		line, ok := s.readLine("\n> ")
		if !ok {
			fmt.Fprintln(s.out, "\nBye!")
			return s.in.Err()
		}

		quit, err := s.dispatch(ctx, line)
		if err != nil {
			if errors.Is(err, errEndOfInput) {
				fmt.Fprintln(s.out, "\nBye!")
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintln(s.out, userMessage(err))
		}
		if quit {
			fmt.Fprintln(s.out, "Bye!")
			return nil
		}
	}
}

var errEndOfInput = errors.New("end of input")

func userMessage(err error) string {
	if errors.Is(err, search.ErrNoTerms) {
		return "Please provide at least one word."
	}
	return "Error: " + err.Error()
}

func (s *shell) dispatch(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, shellHelp)
	case "search":
		return false, s.app.runSearch(ctx, s.installs, args)
	case "versions":
		return false, s.app.listVersions(ctx, s.installs)
	case "show":
		return false, s.show(args)
	default:
		fmt.Fprintf(s.out, "Unknown command %q, type 'help' for a list of commands.\n", name)
	}
	return false, nil
}

// show prints the source of one matching class of a version, asking which
// one when several match.
func (s *shell) show(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: show <version> <word>...")
	}

	in, ok := versions.Find(s.installs, args[0])
	if !ok {
		return fmt.Errorf("version %s is not installed", args[0])
	}

	terms := search.NormalizeTerms(args[1:])
	matches, err := s.app.finder.Find(in.Path, terms)
	if err != nil {
		return err
	}

	var path string
	switch len(matches) {
	case 0:
		fmt.Fprintln(s.out, "No matches.")
		return nil
	case 1:
		path = matches[0]
	default:
		fmt.Fprintln(s.out, "There are multiple results:")
		for i, m := range matches {
			fmt.Fprintf(s.out, "[%d]: %s\n", i, m)
		}
		choice, err := s.promptNumber("Select a class: ", 0, len(matches)-1)
		if err != nil {
			return err
		}
		path = matches[choice]
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Contents of class %s:\n\n", filepath.Base(path))
	_, err = s.out.Write(content)
	return err
}

// promptNumber asks until a number in [min, max] is entered.
func (s *shell) promptNumber(prompt string, min, max int) (int, error) {
	for {
		line, ok := s.readLine(prompt)
		if !ok {
			return 0, errEndOfInput
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || choice < min || choice > max {
			fmt.Fprintln(s.out, "Invalid choice, retry.")
			continue
		}
		return choice, nil
	}
}

func (s *shell) readLine(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}
