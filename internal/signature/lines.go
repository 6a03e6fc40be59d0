package signature

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadLines reads all of r and splits it into lines. Trailing carriage
// returns are dropped.
func ReadLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits text on newlines, dropping trailing carriage returns and
// the empty element after a final newline.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ExtractFile reads path and extracts its signature.
func ExtractFile(path string) (ClassSignature, error) {
	f, err := os.Open(path)
	if err != nil {
		return ClassSignature{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return ClassSignature{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Extract(path, lines)
}
