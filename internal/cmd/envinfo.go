package cmd

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hide0128/finder/internal/ailink"
	"github.com/hide0128/finder/internal/appid"
	"github.com/hide0128/finder/internal/config"
	"github.com/hide0128/finder/internal/observability"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display version, runtime and effective configuration. API keys are never printed.",
	Run: func(cmd *cobra.Command, args []string) {
		log := observability.CLILogger
		version := crucible.GetVersion()
		identity := appid.Get()

		log.Info("=== finder Environment Information ===")
		log.Info("Application:")
		log.Info("  Name:       " + identity.BinaryName)
		log.Info("  Version:    " + versionInfo.Version)
		log.Info("  Commit:     " + versionInfo.Commit)
		log.Info("  Built:      " + versionInfo.BuildDate)
		log.Info("  Gofulmen:   "+version.Gofulmen, zap.String("gofulmen_version", version.Gofulmen))
		log.Info("  Crucible:   "+version.Crucible, zap.String("crucible_version", version.Crucible))
		log.Info("  Go:         "+runtime.Version(), zap.String("go_version", runtime.Version()))
		log.Info("  Platform:   " + runtime.GOOS + "/" + runtime.GOARCH)

		cfg, err := config.Load(cmd.Context())
		if err != nil {
			log.Warn("Config load failed", zap.Error(err))
			return
		}

		log.Info("Configuration:")
		log.Info("  Config File:    " + config.DefaultConfigPath())
		log.Info(fmt.Sprintf("  Server:         %s:%d", cfg.Server.Host, cfg.Server.Port))
		log.Info("  Log Level:      " + cfg.Logging.Level)
		log.Info(fmt.Sprintf("  Metrics:        %t (port %d)", cfg.Metrics.Enabled, cfg.Metrics.Port))
		log.Info(fmt.Sprintf("  Concurrency:    %s", concurrencyLabel(cfg.Lookup.Concurrency)))
		log.Info("  Lookup Timeout: " + cfg.Lookup.Timeout.String())
		log.Info("  Unknown Value:  " + cfg.Output.UnknownSentinel)
		log.Info("  Input Encoding: " + cfg.Input.Encoding)
		log.Info(fmt.Sprintf("  Verify Domains: %t", cfg.Verify.Enabled))

		log.Info("AILink:")
		for _, line := range providerSummary(cfg.AILink) {
			log.Info("  " + line)
		}
	},
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}

func concurrencyLabel(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return fmt.Sprint(n)
}

// providerSummary describes each configured provider without secrets.
func providerSummary(cfg ailink.Config) []string {
	lines := []string{
		"Default Provider: " + valueOr(cfg.DefaultProvider, "(unset)"),
		"Default Timeout:  " + cfg.DefaultTimeout.String(),
	}
	ids := make([]string, 0, len(cfg.Providers))
	for id := range cfg.Providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := cfg.Providers[id]
		keys := 0
		for _, c := range p.Credentials {
			if strings.TrimSpace(c.APIKey) != "" {
				keys++
			}
		}
		lines = append(lines, fmt.Sprintf("%s: enabled=%t ai_provider=%s model=%s api_keys=%d",
			id, p.Enabled, p.AIProvider, valueOr(p.Models["default"], "(prompt default)"), keys))
	}
	return lines
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
