package config

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()
	t.Setenv("GEMINI_API_KEY", "")

	t.Run("LoadDefaults", func(t *testing.T) {
		cfg, err := Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "localhost", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "SIMPLE", cfg.Logging.Profile)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, 9090, cfg.Metrics.Port)

		assert.Equal(t, 0, cfg.Lookup.Concurrency)
		assert.Equal(t, time.Duration(0), cfg.Lookup.Timeout)
		assert.Equal(t, 60*time.Second, cfg.AILink.DefaultTimeout)
		assert.Equal(t, "情報なし", cfg.Output.UnknownSentinel)
		assert.False(t, cfg.Output.BlankUnknown)
		assert.False(t, cfg.Verify.Enabled)
		assert.Equal(t, "auto", cfg.Input.Encoding)
	})

	t.Run("RuntimeOverrides", func(t *testing.T) {
		overrides := map[string]any{
			"server":  map[string]any{"port": 9000, "host": "0.0.0.0"},
			"lookup":  map[string]any{"concurrency": 4, "timeout": "20s"},
			"logging": map[string]any{"level": "debug"},
		}

		cfg, err := Load(ctx, overrides)
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, 4, cfg.Lookup.Concurrency)
		assert.Equal(t, 20*time.Second, cfg.Lookup.Timeout)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "SIMPLE", cfg.Logging.Profile)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("FINDER_PORT", "3000")
		t.Setenv("FINDER_LOG_LEVEL", "warn")
		t.Setenv("FINDER_METRICS_ENABLED", "false")
		t.Setenv("FINDER_LOOKUP_RATE_PER_SECOND", "2.5")
		t.Setenv("FINDER_OUTPUT_BLANK_UNKNOWN", "true")
		t.Setenv("FINDER_READ_TIMEOUT", "45s")

		cfg, err := Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.False(t, cfg.Metrics.Enabled)
		assert.Equal(t, 2.5, cfg.Lookup.RatePerSecond)
		assert.True(t, cfg.Output.BlankUnknown)
		assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	})

	t.Run("ConfigPrecedence", func(t *testing.T) {
		t.Setenv("FINDER_PORT", "4000")

		cfg, err := Load(ctx, map[string]any{"server": map[string]any{"port": 5000}})
		require.NoError(t, err)
		assert.Equal(t, 5000, cfg.Server.Port)
	})

	t.Run("ViperFileLayer", func(t *testing.T) {
		viper.Set("output", map[string]any{"unknown_sentinel": "不明"})
		t.Cleanup(viper.Reset)
		t.Setenv("FINDER_OUTPUT_BLANK_UNKNOWN", "true")

		cfg, err := Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "不明", cfg.Output.UnknownSentinel)
		assert.True(t, cfg.Output.BlankUnknown)
		assert.Equal(t, "table", cfg.Output.Format)
	})

	t.Run("InvalidSettings", func(t *testing.T) {
		_, err := Load(ctx, map[string]any{"lookup": map[string]any{"concurrency": -1}})
		require.Error(t, err)

		_, err = Load(ctx, map[string]any{"input": map[string]any{"encoding": "utf-16"}})
		require.Error(t, err)
	})
}

func TestProviderEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("FINDER_AILINK_PROVIDERS_GEMINI_MAIN_ENABLED", "true")
	t.Setenv("FINDER_AILINK_PROVIDERS_GEMINI_MAIN_AI_PROVIDER", "gemini")
	t.Setenv("FINDER_AILINK_PROVIDERS_GEMINI_MAIN_MODELS_DEFAULT", "gemini-2.5-pro")
	t.Setenv("FINDER_AILINK_PROVIDERS_GEMINI_MAIN_CREDENTIALS_0_API_KEY", "k0")
	t.Setenv("FINDER_AILINK_PROVIDERS_GEMINI_MAIN_CREDENTIALS_0_PRIORITY", "3")
	t.Setenv("FINDER_AILINK_PROVIDERS_GEMINI_MAIN_DISABLE_SEARCH", "true")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	provider, ok := cfg.AILink.Providers["gemini-main"]
	require.True(t, ok)
	assert.True(t, provider.Enabled)
	assert.Equal(t, "gemini", provider.AIProvider)
	assert.Equal(t, "gemini-2.5-pro", provider.Models["default"])
	assert.True(t, provider.DisableSearch)
	require.Len(t, provider.Credentials, 1)
	assert.Equal(t, "k0", provider.Credentials[0].APIKey)
	assert.Equal(t, 3, provider.Credentials[0].Priority)
}

func TestGeminiKeyShortcut(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AILink.DefaultProvider)
	provider := cfg.AILink.Providers["gemini"]
	assert.True(t, provider.Enabled)
	assert.Equal(t, "gemini-2.5-flash", provider.Models["default"])
	require.Len(t, provider.Credentials, 1)
	assert.Equal(t, "secret", provider.Credentials[0].APIKey)
}

func TestGetConfig(t *testing.T) {
	cfg, err := Load(context.Background(), map[string]any{"server": map[string]any{"port": 7100}})
	require.NoError(t, err)

	current := GetConfig()
	require.NotNil(t, current)
	assert.Equal(t, cfg.Server.Port, current.Server.Port)
}

func TestEnvSpecs(t *testing.T) {
	names := map[string]bool{}
	for _, spec := range getEnvSpecs() {
		names[spec.Name] = true
	}
	assert.True(t, names["FINDER_LOG_LEVEL"])
	assert.True(t, names["FINDER_PORT"])
	assert.True(t, names["FINDER_LOOKUP_CONCURRENCY"])
	assert.True(t, names["FINDER_OUTPUT_UNKNOWN_SENTINEL"])
}

func TestSetViperDefaults(t *testing.T) {
	v := viper.New()
	SetViperDefaults(v)
	assert.Equal(t, 8080, v.GetInt("server.port"))
	assert.Equal(t, "情報なし", v.GetString("output.unknown_sentinel"))
	assert.Equal(t, 60*time.Second, v.GetDuration("ailink.default_timeout"))
}
