package prompt

import (
	"embed"
	"fmt"
	"strings"
)

// DefaultSlug is the prompt used for company lookups.
const DefaultSlug = "company-info"

//go:embed prompts/*.md
var defaultPromptsFS embed.FS

// LoadDefaults loads the embedded prompt set.
func LoadDefaults() ([]*Prompt, error) {
	entries, err := defaultPromptsFS.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("read embedded prompts: %w", err)
	}
	results := make([]*Prompt, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := defaultPromptsFS.ReadFile("prompts/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read embedded prompt %s: %w", entry.Name(), err)
		}
		p, err := Load(entry.Name(), data)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, nil
}

// BuildRegistry loads the embedded prompts and overlays any found in dir.
// An empty dir yields the embedded set alone.
func BuildRegistry(dir string) (Registry, error) {
	defaults, err := LoadDefaults()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dir) == "" {
		return NewRegistry(defaults)
	}
	overrides, err := LoadFromDir(dir)
	if err != nil {
		return nil, err
	}
	return Overlay(defaults, overrides)
}
