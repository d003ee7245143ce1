// Package config provides centralized configuration management for finder.
// Layers, lowest first: built-in defaults, the user config file read by
// viper, FINDER_ environment variables, and runtime overrides.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/hide0128/finder/internal/appid"
)

var (
	// appConfig holds the current application configuration
	appConfig *Config
	configMu  sync.RWMutex
)

// EnvVarSpec defines environment variable mappings for config fields
// following the pattern: {PREFIX}{NAME} maps to config path
type EnvVarSpec = gfconfig.EnvVarSpec

// Environment variable types
const (
	EnvString = gfconfig.EnvString
	EnvInt    = gfconfig.EnvInt
	EnvBool   = gfconfig.EnvBool
)

// Load builds the configuration from all layers and stores it for GetConfig.
// It is safe to call repeatedly.
func Load(ctx context.Context, runtimeOverrides ...map[string]any) (*Config, error) {
	_ = ctx

	envOverrides, err := gfconfig.LoadEnvOverrides(getEnvSpecs())
	if err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	prefix := appid.Get().Prefix()
	applyAILinkDynamicEnvOverrides(prefix, envOverrides)
	if err := applyFloatEnv(prefix+"LOOKUP_RATE_PER_SECOND", envOverrides, "lookup", "rate_per_second"); err != nil {
		return nil, err
	}
	if err := applyFloatEnv(prefix+"VERIFY_RATE_PER_SECOND", envOverrides, "verify", "rate_per_second"); err != nil {
		return nil, err
	}

	merged := Defaults()
	mergeMaps(merged, viper.AllSettings())
	mergeMaps(merged, envOverrides)
	for _, override := range runtimeOverrides {
		mergeMaps(merged, override)
	}
	applyProviderShortcuts(prefix, merged)

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToFloat64HookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(merged); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setConfig(cfg)
	return cfg, nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	if c.Lookup.Concurrency < 0 {
		return fmt.Errorf("lookup.concurrency must not be negative")
	}
	if c.Lookup.RatePerSecond < 0 {
		return fmt.Errorf("lookup.rate_per_second must not be negative")
	}
	if strings.TrimSpace(c.Output.UnknownSentinel) == "" {
		return fmt.Errorf("output.unknown_sentinel must not be empty")
	}
	switch strings.ToLower(strings.TrimSpace(c.Input.Encoding)) {
	case "", "auto", "utf-8", "utf8", "shift_jis", "shift-jis", "sjis", "cp932", "euc-jp", "eucjp":
	default:
		return fmt.Errorf("unsupported input.encoding: %s", c.Input.Encoding)
	}
	return nil
}

// GetConfig returns the current application configuration (thread-safe)
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// setConfig updates the current configuration (thread-safe)
func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

// UserConfigPaths lists candidate user config files, most specific first.
func UserConfigPaths() []string {
	return gfconfig.GetAppConfigPaths(appid.Get().ConfigName)
}

// DefaultConfigPath returns the XDG-compliant path to the user config file.
func DefaultConfigPath() string {
	configDir := gfconfig.GetAppConfigDir(appid.Get().ConfigName)
	if strings.TrimSpace(configDir) == "" {
		return ""
	}
	return filepath.Join(configDir, "config.yaml")
}

// getEnvSpecs maps FINDER_* variables to config paths.
func getEnvSpecs() []EnvVarSpec {
	prefix := appid.Get().Prefix()

	return []EnvVarSpec{
		// Server config
		{Name: prefix + "HOST", Path: []string{"server", "host"}, Type: EnvString},
		{Name: prefix + "PORT", Path: []string{"server", "port"}, Type: EnvInt},
		// Duration fields are parsed as strings and converted by mapstructure decode hook
		{Name: prefix + "READ_TIMEOUT", Path: []string{"server", "read_timeout"}, Type: EnvString},
		{Name: prefix + "WRITE_TIMEOUT", Path: []string{"server", "write_timeout"}, Type: EnvString},
		{Name: prefix + "IDLE_TIMEOUT", Path: []string{"server", "idle_timeout"}, Type: EnvString},
		{Name: prefix + "SHUTDOWN_TIMEOUT", Path: []string{"server", "shutdown_timeout"}, Type: EnvString},

		{Name: prefix + "LOG_LEVEL", Path: []string{"logging", "level"}, Type: EnvString},
		{Name: prefix + "LOG_PROFILE", Path: []string{"logging", "profile"}, Type: EnvString},

		{Name: prefix + "METRICS_ENABLED", Path: []string{"metrics", "enabled"}, Type: EnvBool},
		{Name: prefix + "METRICS_PORT", Path: []string{"metrics", "port"}, Type: EnvInt},
		{Name: prefix + "HEALTH_ENABLED", Path: []string{"health", "enabled"}, Type: EnvBool},

		{Name: prefix + "LOOKUP_CONCURRENCY", Path: []string{"lookup", "concurrency"}, Type: EnvInt},
		{Name: prefix + "LOOKUP_TIMEOUT", Path: []string{"lookup", "timeout"}, Type: EnvString},
		{Name: prefix + "LOOKUP_BURST", Path: []string{"lookup", "burst"}, Type: EnvInt},
		{Name: prefix + "LOOKUP_MODEL", Path: []string{"lookup", "model"}, Type: EnvString},

		{Name: prefix + "AILINK_DEFAULT_PROVIDER", Path: []string{"ailink", "default_provider"}, Type: EnvString},
		{Name: prefix + "AILINK_DEFAULT_TIMEOUT", Path: []string{"ailink", "default_timeout"}, Type: EnvString},
		{Name: prefix + "AILINK_PROMPTS_DIR", Path: []string{"ailink", "prompts_dir"}, Type: EnvString},
		{Name: prefix + "AILINK_PROMPT_SLUG", Path: []string{"ailink", "prompt_slug"}, Type: EnvString},
		{Name: prefix + "AILINK_DEBUG_CAPTURE_RAW_ENABLED", Path: []string{"ailink", "debug", "capture_raw_enabled"}, Type: EnvBool},
		{Name: prefix + "AILINK_DEBUG_CAPTURE_RAW_MAX_BYTES", Path: []string{"ailink", "debug", "capture_raw_max_bytes"}, Type: EnvInt},

		{Name: prefix + "OUTPUT_UNKNOWN_SENTINEL", Path: []string{"output", "unknown_sentinel"}, Type: EnvString},
		{Name: prefix + "OUTPUT_BLANK_UNKNOWN", Path: []string{"output", "blank_unknown"}, Type: EnvBool},
		{Name: prefix + "OUTPUT_FORMAT", Path: []string{"output", "format"}, Type: EnvString},
		{Name: prefix + "OUTPUT_COLUMNS", Path: []string{"output", "columns"}, Type: EnvString},

		{Name: prefix + "VERIFY_ENABLED", Path: []string{"verify", "enabled"}, Type: EnvBool},
		{Name: prefix + "VERIFY_TIMEOUT", Path: []string{"verify", "timeout"}, Type: EnvString},
		{Name: prefix + "VERIFY_BOOTSTRAP_URL", Path: []string{"verify", "bootstrap_url"}, Type: EnvString},

		{Name: prefix + "INPUT_ENCODING", Path: []string{"input", "encoding"}, Type: EnvString},
	}
}

func applyFloatEnv(name string, envOverrides map[string]any, path ...string) error {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	parent := envOverrides
	for _, key := range path[:len(path)-1] {
		parent = ensureMap(parent, key)
	}
	parent[path[len(path)-1]] = parsed
	return nil
}

// applyProviderShortcuts turns FINDER_GEMINI_API_KEY (or GEMINI_API_KEY) and
// FINDER_OPENAI_API_KEY into provider entries when none with that id exist.
// Gemini becomes the default provider unless one is already set.
func applyProviderShortcuts(prefix string, merged map[string]any) {
	ailink := ensureMap(merged, "ailink")
	providers := ensureMap(ailink, "providers")

	shortcuts := []struct {
		id, provider, model string
		keys                []string
	}{
		{"gemini", "gemini", "gemini-2.5-flash", []string{prefix + "GEMINI_API_KEY", "GEMINI_API_KEY"}},
		{"openai", "openai", "gpt-4o-search-preview", []string{prefix + "OPENAI_API_KEY"}},
	}

	for _, sc := range shortcuts {
		if _, exists := providers[sc.id]; exists {
			continue
		}
		var key string
		for _, name := range sc.keys {
			if key = strings.TrimSpace(os.Getenv(name)); key != "" {
				break
			}
		}
		if key == "" {
			continue
		}
		providers[sc.id] = map[string]any{
			"enabled":     true,
			"ai_provider": sc.provider,
			"models":      map[string]any{"default": sc.model},
			"credentials": []any{map[string]any{"enabled": true, "label": "env", "api_key": key}},
		}
		if current, _ := ailink["default_provider"].(string); strings.TrimSpace(current) == "" {
			ailink["default_provider"] = sc.id
		}
	}
}

// applyAILinkDynamicEnvOverrides maps FINDER_AILINK_PROVIDERS_<ID>_<FIELD>
// variables into ailink.providers.<id>.
func applyAILinkDynamicEnvOverrides(prefix string, envOverrides map[string]any) {
	providerPrefix := prefix + "AILINK_PROVIDERS_"

	for _, item := range os.Environ() {
		key, value, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if strings.HasPrefix(key, providerPrefix) {
			applyAILinkProviderOverride(envOverrides, key[len(providerPrefix):], value)
		}
	}
}

func applyAILinkProviderOverride(envOverrides map[string]any, raw string, value string) {
	parts := strings.Split(strings.TrimSpace(raw), "_")
	if len(parts) < 2 {
		return
	}

	section := -1
	for i, part := range parts {
		switch part {
		case "ENABLED", "AI", "BASE", "MODELS", "CREDENTIALS", "DISABLE", "SELECTION", "DEFAULT":
			section = i
		}
		if section != -1 {
			break
		}
	}
	if section <= 0 {
		return
	}

	providerID := strings.ToLower(strings.Join(parts[:section], "-"))
	if providerID == "" {
		return
	}

	ailink := ensureMap(envOverrides, "ailink")
	providers := ensureMap(ailink, "providers")
	provider := ensureMap(providers, providerID)

	value = strings.TrimSpace(value)
	rest := parts[section:]
	switch {
	case len(rest) == 1 && rest[0] == "ENABLED":
		provider["enabled"] = strings.EqualFold(value, "true")
	case len(rest) == 2 && rest[0] == "AI" && rest[1] == "PROVIDER":
		provider["ai_provider"] = strings.ToLower(value)
	case len(rest) == 2 && rest[0] == "DEFAULT" && rest[1] == "CREDENTIAL":
		provider["default_credential"] = value
	case len(rest) == 2 && rest[0] == "SELECTION" && rest[1] == "POLICY":
		provider["selection_policy"] = strings.ToLower(value)
	case len(rest) == 2 && rest[0] == "BASE" && rest[1] == "URL":
		provider["base_url"] = value
	case len(rest) == 2 && rest[0] == "DISABLE" && rest[1] == "SEARCH":
		provider["disable_search"] = strings.EqualFold(value, "true")
	case len(rest) >= 2 && rest[0] == "MODELS":
		modelKey := strings.ToLower(strings.Join(rest[1:], "_"))
		models := ensureMap(provider, "models")
		models[modelKey] = value
	case len(rest) >= 3 && rest[0] == "CREDENTIALS":
		idx, err := strconv.Atoi(rest[1])
		if err != nil || idx < 0 {
			return
		}
		field := strings.ToLower(strings.Join(rest[2:], "_"))
		if field == "" {
			return
		}

		creds := ensureSlice(provider, "credentials", idx+1)
		cred := ensureSliceMap(creds, idx)
		switch field {
		case "priority":
			if parsed, err := strconv.Atoi(value); err == nil {
				cred[field] = parsed
			} else {
				cred[field] = value
			}
		case "enabled":
			cred[field] = strings.EqualFold(value, "true")
		default:
			cred[field] = value
		}
	}
}

// mergeMaps copies src into dst, descending into nested maps.
func mergeMaps(dst, src map[string]any) {
	for key, value := range src {
		srcMap, srcIsMap := value.(map[string]any)
		if dstMap, ok := dst[key].(map[string]any); ok && srcIsMap {
			mergeMaps(dstMap, srcMap)
			continue
		}
		if srcIsMap {
			copied := map[string]any{}
			mergeMaps(copied, srcMap)
			dst[key] = copied
			continue
		}
		dst[key] = value
	}
}

func ensureMap(parent map[string]any, key string) map[string]any {
	if parent == nil {
		return map[string]any{}
	}
	if existing, ok := parent[key]; ok {
		if typed, ok := existing.(map[string]any); ok {
			return typed
		}
	}
	next := map[string]any{}
	parent[key] = next
	return next
}

func ensureSlice(parent map[string]any, key string, length int) []any {
	var existing []any
	if raw, ok := parent[key]; ok {
		existing, _ = raw.([]any)
	}
	for len(existing) < length {
		existing = append(existing, map[string]any{})
	}
	parent[key] = existing
	return existing
}

func ensureSliceMap(slice []any, idx int) map[string]any {
	if idx < 0 || idx >= len(slice) {
		return map[string]any{}
	}
	if typed, ok := slice[idx].(map[string]any); ok {
		return typed
	}
	m := map[string]any{}
	slice[idx] = m
	return m
}
