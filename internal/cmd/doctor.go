package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hide0128/finder/internal/ailink"
	"github.com/hide0128/finder/internal/ailink/prompt"
	"github.com/hide0128/finder/internal/appid"
	"github.com/hide0128/finder/internal/config"
	"github.com/hide0128/finder/internal/observability"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks",
	Long:  "Run diagnostic checks on the configuration and the lookup provider setup.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.CLILogger
		logger.Info("=== " + appid.Get().BinaryName + " doctor ===")
		logger.Info("")

		const total = 5
		healthy := true

		version := crucible.GetVersion()
		if version.Gofulmen != "" {
			logger.Info(fmt.Sprintf("[1/%d] Checking runtime... ✅ %s, gofulmen v%s", total, runtime.Version(), version.Gofulmen),
				zap.String("go_version", runtime.Version()),
				zap.String("gofulmen_version", version.Gofulmen))
		} else {
			logger.Warn(fmt.Sprintf("[1/%d] Checking runtime... ⚠️  %s, gofulmen version unknown", total, runtime.Version()))
		}

		if configPath := config.DefaultConfigPath(); configPath != "" {
			logger.Info(fmt.Sprintf("[2/%d] Checking config directory... ✅ %s", total, filepath.Dir(configPath)))
		} else {
			logger.Warn(fmt.Sprintf("[2/%d] Checking config directory... ⚠️  cannot resolve", total))
		}

		cfg, err := config.Load(cmd.Context())
		if err != nil {
			logger.Error(fmt.Sprintf("[3/%d] Checking configuration... ❌ %v", total, err))
			return err
		}
		logger.Info(fmt.Sprintf("[3/%d] Checking configuration... ✅ %s", total,
			strings.Join(providerSummary(cfg.AILink), "; ")))

		svc, err := ailink.NewService(cfg.AILink, cfg.Lookup.Model, cfg.Output.UnknownSentinel)
		if err != nil {
			logger.Error(fmt.Sprintf("[4/%d] Checking prompts... ❌ %v", total, err))
			return err
		}
		logger.Info(fmt.Sprintf("[4/%d] Checking prompts... ✅ %s", total, lookupPromptSlug(cfg)))

		if err := svc.CheckHealth(cmd.Context()); err != nil {
			logger.Warn(fmt.Sprintf("[5/%d] Checking lookup provider... ⚠️  %v", total, err))
			healthy = false
		} else {
			logger.Info(fmt.Sprintf("[5/%d] Checking lookup provider... ✅ resolved", total))
		}

		logger.Info("")
		if healthy {
			logger.Info("All checks passed.")
		} else {
			logger.Warn("Some checks need attention. Run '" + appid.Get().BinaryName + " doctor ailink' for details.")
		}
		return nil
	},
}

var (
	doctorAILinkModel string
	doctorAILinkLive  string
)

var doctorAILinkCmd = &cobra.Command{
	Use:   "ailink",
	Short: "Inspect lookup provider resolution",
	Long: `Resolve the lookup prompt to a provider instance and show model and
credential selection. With --live, run one lookup and report its latency.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		model := strings.TrimSpace(doctorAILinkModel)
		if model == "" {
			model = cfg.Lookup.Model
		}
		svc, err := ailink.NewService(cfg.AILink, model, cfg.Output.UnknownSentinel)
		if err != nil {
			return fmt.Errorf("load prompt registry: %w", err)
		}

		slug := lookupPromptSlug(cfg)
		promptDef, err := svc.Prompts.Get(slug)
		if err != nil {
			return fmt.Errorf("prompt not found: %w", err)
		}
		resolved, err := svc.Providers.Resolve(promptDef, model)
		if err != nil {
			return fmt.Errorf("resolve provider: %w", err)
		}

		for _, line := range describeResolution(slug, promptDef, resolved, model) {
			observability.CLILogger.Info(line)
		}
		if strings.TrimSpace(resolved.Credential.APIKey) == "" {
			observability.CLILogger.Warn("Selected credential has no API key", zap.String("provider", resolved.ProviderID))
		}

		name := strings.TrimSpace(doctorAILinkLive)
		if name == "" {
			return nil
		}
		return runLiveLookup(cmd.Context(), svc, name, cfg.Lookup.Timeout)
	},
}

func lookupPromptSlug(cfg *config.Config) string {
	if slug := strings.TrimSpace(cfg.AILink.PromptSlug); slug != "" {
		return slug
	}
	return prompt.DefaultSlug
}

// modelSource names where the resolved model came from, in resolution order.
func modelSource(override string, provider ailink.ProviderInstanceConfig) string {
	switch {
	case strings.TrimSpace(override) != "":
		return "cli_override"
	case strings.TrimSpace(provider.Models["default"]) != "":
		return "provider.models.default"
	default:
		return "prompt_preferred_models"
	}
}

func describeResolution(slug string, promptDef *prompt.Prompt, resolved *ailink.ResolvedProvider, override string) []string {
	providerCfg := resolved.Provider
	source := modelSource(override, providerCfg)

	lines := []string{
		"Lookup Provider",
		fmt.Sprintf("  prompt:       %s", slug),
		fmt.Sprintf("  provider_id:  %s", resolved.ProviderID),
		fmt.Sprintf("  ai_provider:  %s", providerCfg.AIProvider),
		fmt.Sprintf("  base_url:     %s", valueOr(providerCfg.BaseURL, "(driver default)")),
		fmt.Sprintf("  model:        %s", resolved.Model),
		fmt.Sprintf("  model_source: %s", source),
	}
	if promptDef != nil && promptDef.Source != "" {
		lines = append(lines, fmt.Sprintf("  prompt_file:  %s", promptDef.Source))
	}

	policy := valueOr(strings.TrimSpace(providerCfg.SelectionPolicy), "priority")
	lines = append(lines, "", "Credential Selection",
		fmt.Sprintf("  selection_policy:   %s", policy))
	if dc := strings.TrimSpace(providerCfg.DefaultCredential); dc != "" {
		lines = append(lines, fmt.Sprintf("  default_credential: %s", dc))
	}
	key := "(not set)"
	if strings.TrimSpace(resolved.Credential.APIKey) != "" {
		key = "(set)"
	}
	lines = append(lines,
		fmt.Sprintf("  selected.label:     %s", valueOr(resolved.Credential.Label, "(unlabeled)")),
		fmt.Sprintf("  selected.priority:  %d", resolved.Credential.Priority),
		fmt.Sprintf("  selected.api_key:   %s", key))
	return lines
}

func runLiveLookup(ctx context.Context, svc *ailink.Service, name string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger := observability.CLILogger
	logger.Info("")
	logger.Info(fmt.Sprintf("Live lookup: %s", name))

	start := time.Now()
	info, err := svc.Lookup(ctx, name)
	latency := time.Since(start)
	if err != nil {
		var lookupErr *ailink.LookupError
		code := "unknown"
		if errors.As(err, &lookupErr) {
			code = lookupErr.Code
		}
		logger.Error(fmt.Sprintf("  ❌ %s (%s)", err.Error(), latency.Round(time.Millisecond)),
			zap.String("code", code))
		return err
	}

	logger.Info(fmt.Sprintf("  ✅ %s", latency.Round(time.Millisecond)),
		zap.String("domain", info.Domain),
		zap.String("postal_code", info.PostalCode))
	return nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.AddCommand(doctorAILinkCmd)

	doctorAILinkCmd.Flags().StringVar(&doctorAILinkModel, "model", "", "model override (defaults to provider/prompt config)")
	doctorAILinkCmd.Flags().StringVar(&doctorAILinkLive, "live", "", "run one lookup for this company name")
}
