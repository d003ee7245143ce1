package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hide0128/finder/internal/output"
)

// outputPath resolves where rendered output goes. Binary formats default to
// the standard workbook name instead of stdout; "-" always means stdout.
func outputPath(format output.Format, path string) string {
	path = strings.TrimSpace(path)
	if path == "" && format.Binary() {
		return output.DefaultXLSXFile
	}
	if path == "" {
		return "-"
	}
	return path
}

// writeOutput writes body to path ("-" is stdout) and returns the path used.
func writeOutput(body []byte, path string, stdout io.Writer) (string, error) {
	if path == "-" {
		if _, err := stdout.Write(body); err != nil {
			return "", err
		}
		if len(body) > 0 && !bytes.HasSuffix(body, []byte("\n")) {
			_, _ = io.WriteString(stdout, "\n")
		}
		return path, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", err
	}
	return path, nil
}
