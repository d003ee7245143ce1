package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hide0128/finder/internal/core"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [name...]",
	Short: "Show which lines would be looked up",
	Long: `Clean each non-blank input line and report whether it is accepted as a
company name or which rule rejects it (url, email, phone, local-number,
numeric, bare-domain, too-short). No provider is contacted.`,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringP("file", "f", "", "read names from a file, one per line (- for stdin)")
	classifyCmd.Flags().String("encoding", "auto", "input file encoding: auto, utf-8, shift_jis, euc-jp")
}

func runClassify(cmd *cobra.Command, args []string) error {
	filePath, _ := cmd.Flags().GetString("file")
	encoding, _ := cmd.Flags().GetString("encoding")
	text, err := readInputText(args, filePath, encoding, os.Stdin)
	if err != nil {
		return err
	}
	writeClassification(cmd.OutOrStdout(), text)
	return nil
}

func writeClassification(w io.Writer, text string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "INPUT", "CLEANED", "RESULT"})

	for i, line := range core.SplitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cleaned, rule := core.ClassifyLine(line)
		result := "accept"
		if rule != "" {
			result = "reject: " + rule
		}
		t.AppendRow(table.Row{i + 1, strings.TrimSpace(line), cleaned, result})
	}
	t.Render()
}
