package cmd

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hide0128/finder/internal/ailink"
	"github.com/hide0128/finder/internal/ailink/prompt"
	"github.com/hide0128/finder/internal/core"
	"github.com/hide0128/finder/internal/output"
)

func TestReadInputTextPositional(t *testing.T) {
	text, err := readInputText([]string{"株式会社テスト", "Example Inc."}, "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "株式会社テスト\nExample Inc.", text)

	_, err = readInputText([]string{"a"}, "names.txt", "", nil)
	assert.Error(t, err)
}

func TestReadInputTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBF# header\n株式会社テスト\r\n\nExample Inc.\n"), 0644))

	text, err := readInputText(nil, path, "auto", nil)
	require.NoError(t, err)

	lines := core.SplitLines(text)
	require.Len(t, lines, 5)
	assert.Equal(t, "", lines[0], "comment lines are blanked, not removed")
	assert.Equal(t, "株式会社テスト", lines[1])
	assert.Equal(t, "Example Inc.", lines[3])
}

func TestReadInputTextMissingFile(t *testing.T) {
	_, err := readInputText(nil, filepath.Join(t.TempDir(), "missing.txt"), "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, foundry.ExitFileNotFound, ExitCodeFor(err))
}

func TestReadInputTextUnsupportedEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(path, []byte("株式会社テスト\n"), 0644))

	_, err := readInputText(nil, path, "latin-9", nil)
	assert.Error(t, err)
}

func TestReadInputTextPipedStdin(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close() //nolint:errcheck

	_, err = w.WriteString("テスト商事株式会社\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	text, err := readInputText(nil, "", "", r)
	require.NoError(t, err)
	assert.Equal(t, "テスト商事株式会社\n", text)
}

func TestReadInputTextNoSource(t *testing.T) {
	_, err := readInputText(nil, "", "", nil)
	assert.ErrorIs(t, err, core.ErrEmptyInput)
	assert.Equal(t, foundry.ExitFailure, ExitCodeFor(err))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, output.DefaultXLSXFile, outputPath(output.FormatXLSX, ""))
	assert.Equal(t, "-", outputPath(output.FormatXLSX, "-"))
	assert.Equal(t, "-", outputPath(output.FormatTSV, "  "))
	assert.Equal(t, "out.tsv", outputPath(output.FormatTSV, "out.tsv"))
}

func TestWriteOutput(t *testing.T) {
	var stdout bytes.Buffer
	path, err := writeOutput([]byte("a\tb"), "-", &stdout)
	require.NoError(t, err)
	assert.Equal(t, "-", path)
	assert.Equal(t, "a\tb\n", stdout.String())

	target := filepath.Join(t.TempDir(), "nested", "out.tsv")
	path, err = writeOutput([]byte("a\tb\n"), target, &stdout)
	require.NoError(t, err)
	assert.Equal(t, target, path)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "a\tb\n", string(data))
}

func TestEmitResultsSkipsEmptyWorkbook(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.xlsx")
	results := []core.LookupResult{{Index: 0, Name: "株式会社テスト", Error: "failed"}}

	var stdout, stderr bytes.Buffer
	require.NoError(t, emitResults(output.FormatXLSX, results, output.Options{}, target, &stdout, &stderr))

	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, stderr.String())
}

func TestEmitResultsReportsSavedPath(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.xlsx")
	results := []core.LookupResult{{
		Name: "株式会社テスト",
		Info: &core.CompanyInfo{CompanyName: "株式会社テスト", Domain: "example.co.jp", PostalCode: "100-0001"},
	}}

	var stdout, stderr bytes.Buffer
	require.NoError(t, emitResults(output.FormatXLSX, results, output.Options{}, target, &stdout, &stderr))

	assert.FileExists(t, target)
	assert.Contains(t, stderr.String(), "に保存しました。")
	assert.Empty(t, stdout.String())
}

func TestWriteCleaned(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCleaned(&buf, "新明工業株式会社-2(移管)\n\n  \nExample Inc.\n"))
	assert.Equal(t, "新明工業株式会社\nExample Inc.\n", buf.String())
}

func TestWriteClassification(t *testing.T) {
	var buf bytes.Buffer
	writeClassification(&buf, "株式会社テスト\ninfo@example.com\n\nhttps://example.com\n")

	out := buf.String()
	assert.Contains(t, out, "accept")
	assert.Contains(t, out, "reject: email")
	assert.Contains(t, out, "reject: url")
	assert.NotContains(t, out, "│ 3 ")
}

func TestLookupOverrides(t *testing.T) {
	c := &cobra.Command{Use: "lookup"}
	registerLookupFlags(c)

	assert.Empty(t, lookupOverrides(c))

	require.NoError(t, c.Flags().Set("format", "tsv"))
	require.NoError(t, c.Flags().Set("columns", "company,postal"))
	require.NoError(t, c.Flags().Set("concurrency", "4"))
	require.NoError(t, c.Flags().Set("timeout", "30s"))
	require.NoError(t, c.Flags().Set("verify-domains", "true"))

	overrides := lookupOverrides(c)
	assert.Equal(t, map[string]any{"format": "tsv", "columns": "company,postal"}, overrides["output"])
	assert.Equal(t, map[string]any{"concurrency": 4, "timeout": 30 * time.Second}, overrides["lookup"])
	assert.Equal(t, map[string]any{"enabled": true}, overrides["verify"])
	assert.NotContains(t, overrides, "input")
}

func TestProviderSummaryHidesKeys(t *testing.T) {
	cfg := ailink.Config{
		DefaultProvider: "gemini-main",
		Providers: map[string]ailink.ProviderInstanceConfig{
			"gemini-main": {
				Enabled:    true,
				AIProvider: "gemini",
				Models:     map[string]string{"default": "gemini-2.5-flash"},
				Credentials: []ailink.CredentialConfig{
					{Enabled: true, Label: "primary", APIKey: "secret-key"},
				},
			},
		},
	}

	joined := strings.Join(providerSummary(cfg), "\n")
	assert.Contains(t, joined, "gemini-main: enabled=true ai_provider=gemini model=gemini-2.5-flash api_keys=1")
	assert.NotContains(t, joined, "secret-key")
}

func TestConcurrencyLabel(t *testing.T) {
	assert.Equal(t, "unlimited", concurrencyLabel(0))
	assert.Equal(t, "8", concurrencyLabel(8))
}

func TestDescribeResolution(t *testing.T) {
	resolved := &ailink.ResolvedProvider{
		ProviderID: "openai-main",
		Provider: ailink.ProviderInstanceConfig{
			AIProvider: "openai",
			Models:     map[string]string{"default": "gpt-4.1"},
		},
		Credential: ailink.CredentialConfig{Label: "team", Priority: 2, APIKey: "sk-test"},
		Model:      "gpt-4.1",
	}

	joined := strings.Join(describeResolution(prompt.DefaultSlug, nil, resolved, ""), "\n")
	assert.Contains(t, joined, "model_source: provider.models.default")
	assert.Contains(t, joined, "selection_policy:   priority")
	assert.Contains(t, joined, "selected.api_key:   (set)")
	assert.NotContains(t, joined, "sk-test")

	joined = strings.Join(describeResolution(prompt.DefaultSlug, nil, resolved, "gpt-4.1-mini"), "\n")
	assert.Contains(t, joined, "model_source: cli_override")
}

func TestModelSourceFallsBackToPrompt(t *testing.T) {
	assert.Equal(t, "prompt_preferred_models", modelSource("", ailink.ProviderInstanceConfig{}))
}

func TestWritePrompts(t *testing.T) {
	registry, err := prompt.BuildRegistry("")
	require.NoError(t, err)

	var buf bytes.Buffer
	writePrompts(&buf, registry.List(), prompt.DefaultSlug)
	assert.Contains(t, buf.String(), prompt.DefaultSlug)
	assert.Contains(t, buf.String(), "*")

	buf.Reset()
	writePrompts(&buf, nil, prompt.DefaultSlug)
	assert.Equal(t, "No prompts found.\n", buf.String())
}
