package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	prompts, err := LoadDefaults()
	require.NoError(t, err)
	require.NotEmpty(t, prompts)

	reg, err := NewRegistry(prompts)
	require.NoError(t, err)

	p, err := reg.Get(DefaultSlug)
	require.NoError(t, err)
	require.Contains(t, p.Config.SystemTemplate, "{{name}}")
	require.True(t, p.Config.WebSearch)
	require.NotNil(t, p.Config.Generation.Temperature)
	require.InDelta(t, 0.05, *p.Config.Generation.Temperature, 1e-9)
	require.NotNil(t, p.Config.Generation.ThinkingBudget)
	require.Equal(t, 0, *p.Config.Generation.ThinkingBudget)
	require.Equal(t, "object", p.Config.ResponseSchema["type"])
}

func TestLoadRejectsInvalidSlug(t *testing.T) {
	_, err := Load("bad.md", []byte("---\nslug: Bad Slug\n---\nbody"))
	require.Error(t, err)
}

func TestLoadRequiresBody(t *testing.T) {
	_, err := Load("empty.md", []byte("---\nslug: empty\n---\n"))
	require.Error(t, err)
}

func TestBuildRegistryOverlaysDir(t *testing.T) {
	dir := t.TempDir()
	override := "---\nslug: company-info\n---\nCustom prompt for {{name}}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "company-info.md"), []byte(override), 0o600))

	reg, err := BuildRegistry(dir)
	require.NoError(t, err)

	p, err := reg.Get(DefaultSlug)
	require.NoError(t, err)
	require.Equal(t, "Custom prompt for {{name}}", p.Config.SystemTemplate)
	require.False(t, p.Config.WebSearch)
}

func TestRegistryDuplicateSlug(t *testing.T) {
	a := &Prompt{Config: Config{Slug: "x", SystemTemplate: "a"}}
	_, err := NewRegistry([]*Prompt{a, a})
	require.Error(t, err)
}
