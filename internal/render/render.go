// Package render prints search results as version blocks or as a table.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mvp-joe/sigscan/internal/search"
)

// Layout selects how results are printed.
type Layout string

const (
	LayoutBlocks Layout = "blocks"
	LayoutTable  Layout = "table"
)

// ParseLayout parses a layout name, ignoring case.
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case LayoutBlocks:
		return LayoutBlocks, nil
	case LayoutTable:
		return LayoutTable, nil
	}
	return "", fmt.Errorf("unknown layout %q (valid: blocks, table)", s)
}

// Write prints results in the given layout.
func Write(w io.Writer, layout Layout, results []search.Result, spacer int) error {
	if layout == LayoutTable {
		return Table(w, results)
	}
	return Blocks(w, results, spacer)
}

// Header returns the version header line: the label, "NO MATCHES" when empty,
// padded with dashes to width.
func Header(label string, empty bool, width int) string {
	content := label + " "
	if empty {
		content += "NO MATCHES"
	}
	if pad := width - len(content); pad > 0 {
		content += strings.Repeat("-", pad)
	}
	return content
}

// Blocks prints one header per version followed by each signature.
func Blocks(w io.Writer, results []search.Result, spacer int) error {
	for _, r := range results {
		if _, err := fmt.Fprintln(w, Header(r.Label, len(r.Signatures) == 0, spacer)); err != nil {
			return err
		}
		for _, sig := range r.Signatures {
			if _, err := fmt.Fprintln(w, sig.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Table prints one row per signature with columns version, namespace, type,
// fields and path. Versions without matches get a single row.
func Table(w io.Writer, results []search.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "VERSION\tNAMESPACE\tTYPE\tFIELDS\tPATH")
	for _, r := range results {
		if len(r.Signatures) == 0 {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t%s\n", r.Label, "NO MATCHES")
			continue
		}
		for _, sig := range r.Signatures {
			fields := strings.Join(sig.Fields, ", ")
			if fields == "" {
				fields = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Label, sig.Namespace, sig.TypeName, fields, sig.Path)
		}
	}

	return tw.Flush()
}
