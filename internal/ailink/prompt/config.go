package prompt

// Config describes a prompt definition loaded from YAML frontmatter.
type Config struct {
	Slug           string            `yaml:"slug" json:"slug"`
	Name           string            `yaml:"name,omitempty" json:"name,omitempty"`
	Description    string            `yaml:"description,omitempty" json:"description,omitempty"`
	Version        string            `yaml:"version,omitempty" json:"version,omitempty"`
	Input          InputSpec         `yaml:"input,omitempty" json:"input,omitempty"`
	SystemTemplate string            `yaml:"system_template,omitempty" json:"system_template,omitempty"`
	UserTemplate   string            `yaml:"user_template,omitempty" json:"user_template,omitempty"`
	WebSearch      bool              `yaml:"web_search,omitempty" json:"web_search,omitempty"`
	Generation     GenerationOptions `yaml:"generation,omitempty" json:"generation,omitempty"`
	ResponseSchema map[string]any    `yaml:"response_schema,omitempty" json:"response_schema,omitempty"`
	ProviderHints  map[string]any    `yaml:"provider_hints,omitempty" json:"provider_hints,omitempty"`
}

// InputSpec defines prompt input requirements.
type InputSpec struct {
	RequiredVariables []string `yaml:"required_variables,omitempty" json:"required_variables,omitempty"`
}

// GenerationOptions are sampling hints passed to the driver.
type GenerationOptions struct {
	Temperature    *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	TopP           *float64 `yaml:"top_p,omitempty" json:"top_p,omitempty"`
	ThinkingBudget *int     `yaml:"thinking_budget,omitempty" json:"thinking_budget,omitempty"`
}

// Prompt wraps a validated prompt configuration with its source.
type Prompt struct {
	Config Config
	Source string
}
