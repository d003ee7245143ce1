package config

import (
	"github.com/spf13/viper"

	"github.com/hide0128/finder/internal/core"
	"github.com/hide0128/finder/internal/verify"
)

// Defaults returns the built-in configuration as a nested map.
func Defaults() map[string]any {
	return map[string]any{
		"server": map[string]any{
			"host":             "localhost",
			"port":             8080,
			"read_timeout":     "30s",
			"write_timeout":    "180s",
			"idle_timeout":     "120s",
			"shutdown_timeout": "10s",
			"max_body_bytes":   1 << 20,
		},
		"logging": map[string]any{
			"level":   "info",
			"profile": "SIMPLE",
		},
		"metrics": map[string]any{
			"enabled": true,
			"port":    9090,
		},
		"health": map[string]any{
			"enabled": true,
		},
		"lookup": map[string]any{
			"concurrency":     0,
			"timeout":         "0s",
			"rate_per_second": 0.0,
			"burst":           1,
			"model":           "",
		},
		"ailink": map[string]any{
			"default_provider": "",
			"default_timeout":  "60s",
			"prompts_dir":      "",
			"prompt_slug":      "",
			"debug": map[string]any{
				"capture_raw_enabled":   false,
				"capture_raw_max_bytes": 4096,
			},
		},
		"output": map[string]any{
			"unknown_sentinel": core.DefaultUnknownSentinel,
			"blank_unknown":    false,
			"format":           "table",
			"columns":          "company,domain,postal",
		},
		"verify": map[string]any{
			"enabled":         false,
			"timeout":         "10s",
			"bootstrap_url":   verify.DefaultBootstrapURL,
			"rate_per_second": 0.0,
		},
		"input": map[string]any{
			"encoding": "auto",
		},
	}
}

// SetViperDefaults seeds v with Defaults using dotted keys.
func SetViperDefaults(v *viper.Viper) {
	setViperDefaults(v, "", Defaults())
}

func setViperDefaults(v *viper.Viper, prefix string, values map[string]any) {
	for key, value := range values {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			setViperDefaults(v, path, nested)
			continue
		}
		v.SetDefault(path, value)
	}
}
