package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hide0128/finder/internal/ailink/prompt"
	"github.com/hide0128/finder/internal/config"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List lookup prompts",
	Long: `List the embedded lookup prompts and any overrides found in
ailink.prompts_dir. The active prompt is selected by ailink.prompt_slug.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		registry, err := prompt.BuildRegistry(cfg.AILink.PromptsDir)
		if err != nil {
			return err
		}
		writePrompts(cmd.OutOrStdout(), registry.List(), lookupPromptSlug(cfg))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptsCmd)
}

func writePrompts(w io.Writer, prompts []*prompt.Prompt, active string) {
	if len(prompts) == 0 {
		_, _ = fmt.Fprintln(w, "No prompts found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"", "SLUG", "VERSION", "SOURCE", "DESCRIPTION"})
	for _, p := range prompts {
		if p == nil {
			continue
		}
		marker := ""
		if p.Config.Slug == active {
			marker = "*"
		}
		t.AppendRow(table.Row{marker, p.Config.Slug, p.Config.Version, valueOr(p.Source, "embedded"), p.Config.Description})
	}
	t.Render()
}
