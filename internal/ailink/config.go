package ailink

import "time"

// Config defines provider configuration for lookups.
type Config struct {
	DefaultProvider string        `mapstructure:"default_provider"`
	DefaultTimeout  time.Duration `mapstructure:"default_timeout"`

	// PromptsDir overlays user prompts on the embedded set.
	PromptsDir string `mapstructure:"prompts_dir"`
	// PromptSlug selects the lookup prompt; empty means company-info.
	PromptSlug string `mapstructure:"prompt_slug"`

	// Debug controls optional diagnostics like raw payload capture.
	Debug DebugConfig `mapstructure:"debug"`

	// Providers is a set of provider instances keyed by a user-defined id.
	Providers map[string]ProviderInstanceConfig `mapstructure:"providers"`
}

type DebugConfig struct {
	CaptureRawEnabled  bool `mapstructure:"capture_raw_enabled"`
	CaptureRawMaxBytes int  `mapstructure:"capture_raw_max_bytes"`
}

// ProviderInstanceConfig defines a configured provider instance (e.g. "gemini-main").
type ProviderInstanceConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// AIProvider is the driver identifier: "gemini" or "openai".
	AIProvider string `mapstructure:"ai_provider"`

	// SelectionPolicy is "priority" (default) or "round_robin".
	SelectionPolicy string `mapstructure:"selection_policy"`

	// DefaultCredential forces the credential with this label when present.
	DefaultCredential string `mapstructure:"default_credential"`

	BaseURL string            `mapstructure:"base_url"`
	Models  map[string]string `mapstructure:"models"`

	// DisableSearch turns off search grounding even when the prompt asks for it.
	DisableSearch bool `mapstructure:"disable_search"`

	Credentials []CredentialConfig `mapstructure:"credentials"`
}

// CredentialConfig is a single API key for a provider instance.
type CredentialConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Label    string `mapstructure:"label"`
	APIKey   string `mapstructure:"api_key"`
	Priority int    `mapstructure:"priority"`
}
