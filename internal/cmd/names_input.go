package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hide0128/finder/internal/core"
	"github.com/hide0128/finder/internal/normalize"
)

// readInputText returns the multi-line text to prepare. Positional names are
// one line each; --file reads a file ("-" is stdin) in the given encoding.
// With neither, piped stdin is read. Lines starting with # are blanked so
// rejection line numbers still match the file.
func readInputText(positional []string, path, encoding string, stdin *os.File) (string, error) {
	path = strings.TrimSpace(path)
	if path != "" && len(positional) > 0 {
		return "", fmt.Errorf("cannot combine positional names with --file")
	}

	switch {
	case len(positional) > 0:
		return strings.Join(positional, "\n"), nil
	case path == "-":
		return decodeReader(stdin, encoding)
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		text, err := normalize.DecodeInput(data, encoding)
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", path, err)
		}
		return blankComments(text), nil
	case stdin != nil && !isTerminal(stdin):
		return decodeReader(stdin, encoding)
	default:
		return "", core.ErrEmptyInput
	}
}

func decodeReader(r io.Reader, encoding string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	text, err := normalize.DecodeInput(data, encoding)
	if err != nil {
		return "", fmt.Errorf("decode stdin: %w", err)
	}
	return blankComments(text), nil
}

func blankComments(text string) string {
	lines := core.SplitLines(text)
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
