package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hide0128/finder/internal/core"
	"github.com/hide0128/finder/internal/normalize"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [name...]",
	Short: "Strip trailing annotations from company names",
	Long: `Print each non-blank input line with its trailing administrative
annotation removed, e.g. "新明工業株式会社-2(移管)" becomes "新明工業株式会社".
No provider is contacted.`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringP("file", "f", "", "read names from a file, one per line (- for stdin)")
	cleanCmd.Flags().String("encoding", "auto", "input file encoding: auto, utf-8, shift_jis, euc-jp")
}

func runClean(cmd *cobra.Command, args []string) error {
	filePath, _ := cmd.Flags().GetString("file")
	encoding, _ := cmd.Flags().GetString("encoding")
	text, err := readInputText(args, filePath, encoding, os.Stdin)
	if err != nil {
		return err
	}
	return writeCleaned(cmd.OutOrStdout(), text)
}

func writeCleaned(w io.Writer, text string) error {
	for _, line := range core.SplitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, normalize.Clean(line)); err != nil {
			return err
		}
	}
	return nil
}
