package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hide0128/finder/internal/ailink"
	"github.com/hide0128/finder/internal/config"
	"github.com/hide0128/finder/internal/core"
	"github.com/hide0128/finder/internal/core/engine"
	"github.com/hide0128/finder/internal/metrics"
	"github.com/hide0128/finder/internal/observability"
	"github.com/hide0128/finder/internal/output"
	"github.com/hide0128/finder/internal/verify"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [name...]",
	Short: "Look up official domains and postal codes",
	Long: `Look up the official website domain and head-office postal code of each
company name. Names come from arguments, --file, or piped stdin, one per line.

Every name is looked up concurrently; one failing lookup never hides the
others. Failures are listed on stderr after the results.`,
	Example: `  finder lookup 株式会社サンプル "Example Holdings Inc."
  finder lookup --file names.txt --format xlsx
  pbpaste | finder lookup --format tsv --columns company,domain`,
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	registerLookupFlags(lookupCmd)
}

func registerLookupFlags(c *cobra.Command) {
	c.Flags().StringP("file", "f", "", "read names from a file, one per line (- for stdin)")
	c.Flags().String("encoding", "", "input file encoding: auto, utf-8, shift_jis, euc-jp")
	c.Flags().String("format", "", "output format: table, json, markdown, tsv, xlsx")
	c.Flags().String("columns", "", "columns for tsv and xlsx: company,domain,postal")
	c.Flags().StringP("output", "o", "", "write output to a file (xlsx defaults to "+output.DefaultXLSXFile+")")
	c.Flags().Bool("citations", false, "include source URLs")
	c.Flags().Bool("blank-unknown", false, "render unknown values as empty cells")
	c.Flags().Bool("verify-domains", false, "confirm each domain through RDAP")
	c.Flags().Int("concurrency", 0, "maximum lookups in flight (0 = all at once)")
	c.Flags().Duration("timeout", 0, "per-lookup timeout (0 = none)")
	c.Flags().String("model", "", "provider model override")
}

// lookupOverrides maps explicitly set flags onto config paths.
func lookupOverrides(cmd *cobra.Command) map[string]any {
	overrides := map[string]any{}
	set := func(section, key string, value any) {
		m, ok := overrides[section].(map[string]any)
		if !ok {
			m = map[string]any{}
			overrides[section] = m
		}
		m[key] = value
	}

	flags := cmd.Flags()
	if flags.Changed("encoding") {
		v, _ := flags.GetString("encoding")
		set("input", "encoding", v)
	}
	if flags.Changed("format") {
		v, _ := flags.GetString("format")
		set("output", "format", v)
	}
	if flags.Changed("columns") {
		v, _ := flags.GetString("columns")
		set("output", "columns", v)
	}
	if flags.Changed("blank-unknown") {
		v, _ := flags.GetBool("blank-unknown")
		set("output", "blank_unknown", v)
	}
	if flags.Changed("verify-domains") {
		v, _ := flags.GetBool("verify-domains")
		set("verify", "enabled", v)
	}
	if flags.Changed("concurrency") {
		v, _ := flags.GetInt("concurrency")
		set("lookup", "concurrency", v)
	}
	if flags.Changed("timeout") {
		v, _ := flags.GetDuration("timeout")
		set("lookup", "timeout", v)
	}
	if flags.Changed("model") {
		v, _ := flags.GetString("model")
		set("lookup", "model", v)
	}
	return overrides
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd, lookupOverrides(cmd))
	logger := observability.CLILogger

	filePath, _ := cmd.Flags().GetString("file")
	text, err := readInputText(args, filePath, cfg.Input.Encoding, os.Stdin)
	if err != nil {
		return err
	}

	batch, err := prepareBatch(text, logger)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	columns, err := output.ParseColumns(cfg.Output.Columns)
	if err != nil {
		return err
	}
	citations, _ := cmd.Flags().GetBool("citations")
	opts := output.Options{
		Sentinel:     cfg.Output.UnknownSentinel,
		BlankUnknown: cfg.Output.BlankUnknown,
		Citations:    citations,
		Columns:      columns,
	}

	orchestrator, err := buildOrchestrator(cfg, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	outcome, err := orchestrator.Search(cmd.Context(), batch.Candidates)
	if err != nil {
		return err
	}
	report := engine.Summarize(outcome)
	logger.Debug("Lookup batch settled",
		zap.String("batch_id", outcome.BatchID),
		zap.Int("candidates", len(batch.Candidates)),
		zap.Int("successes", report.Successes),
		zap.Int("failures", report.Failures),
		zap.Duration("elapsed", time.Since(start)))

	if report.Kind == engine.ReportTotal {
		return errors.New(report.Message)
	}

	outPath, _ := cmd.Flags().GetString("output")
	if err := emitResults(format, outcome.Results, opts, outPath, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
		return err
	}

	if report.Message != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), report.Message)
	}
	return nil
}

// prepareBatch cleans and filters text, logging each dropped line at debug.
func prepareBatch(text string, logger *logging.Logger) (core.Batch, error) {
	batch, err := core.Prepare(text)
	metrics.RecordPrepared(len(batch.Candidates), batch.RejectedRules())
	for _, r := range batch.Rejected {
		logger.Debug("Line skipped",
			zap.Int("line", r.Line),
			zap.String("raw", r.Raw),
			zap.String("rule", r.Rule))
	}
	return batch, err
}

func emitResults(format output.Format, results []core.LookupResult, opts output.Options, outPath string, stdout, stderr io.Writer) error {
	if format.Binary() && !hasSuccess(results) {
		return nil
	}

	body, err := output.Render(format, results, opts)
	if err != nil {
		return err
	}

	path, err := writeOutput(body, outputPath(format, outPath), stdout)
	if err != nil {
		return err
	}
	if path != "-" {
		fmt.Fprintf(stderr, "%s に保存しました。\n", path)
	}
	return nil
}

// buildOrchestrator wires the provider service, rate limiter and optional
// RDAP verifier from cfg.
func buildOrchestrator(cfg *config.Config, logger *logging.Logger) (*engine.Orchestrator, error) {
	svc, err := ailink.NewService(cfg.AILink, cfg.Lookup.Model, cfg.Output.UnknownSentinel)
	if err != nil {
		return nil, err
	}

	o := &engine.Orchestrator{
		Lookuper:        svc,
		Concurrency:     cfg.Lookup.Concurrency,
		Timeout:         cfg.Lookup.Timeout,
		UnknownSentinel: cfg.Output.UnknownSentinel,
		Logger:          logger,
	}
	if cfg.Lookup.RatePerSecond > 0 {
		o.Limiter = rate.NewLimiter(rate.Limit(cfg.Lookup.RatePerSecond), max(cfg.Lookup.Burst, 1))
	}
	if cfg.Verify.Enabled {
		o.Verifier = verify.NewRDAPVerifier(cfg.Verify, logger)
	}
	return o, nil
}

func hasSuccess(results []core.LookupResult) bool {
	for i := range results {
		if results[i].Succeeded() {
			return true
		}
	}
	return false
}
