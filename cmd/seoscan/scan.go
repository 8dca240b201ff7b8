package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/database"
	seolog "github.com/nao1215/seoscan/internal/log"
	"github.com/nao1215/seoscan/internal/model"
	"github.com/nao1215/seoscan/internal/pipeline"
	"github.com/nao1215/seoscan/internal/report"
	"github.com/nao1215/seoscan/internal/schema"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [output-dir...]",
		Short: "Audit a static site output directory",
		Long: `Scan reads every HTML page, image, robots.txt and sitemap in the output
directory of a static site and reports SEO, accessibility and crawlability
issues.

The directory defaults to outputDir from .seoscan.yaml, then "dist".

Examples:
  # Audit dist/ and print a colored report
  seoscan scan dist/

  # Audit two sites and emit SARIF for code scanning
  seoscan scan --format sarif -o seoscan.sarif dist/ docs/dist/

  # GitHub Actions annotations, failing on warnings
  seoscan scan --format github --fail-on warning

  # Check canonical and hreflang URLs against the production domain
  seoscan scan --base-url https://example.com --languages en,ja dist/`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("base-url", "u", "",
		"Canonical scheme and host of the site (e.g. https://example.com)")
	cmd.Flags().String("main-domain", "",
		"Apex domain used to tell subdomains from foreign domains")
	cmd.Flags().StringSliceP("languages", "l", nil,
		"Languages the site is published in (comma separated)")
	cmd.Flags().String("default-language", config.DefaultLanguage,
		"Language of pages outside a language directory")
	cmd.Flags().StringSliceP("disable-rule", "d", nil,
		"Rule id to disable (repeatable)")

	cmd.Flags().StringP("format", "f", config.FormatConsole,
		"Report format: console, json, sarif, github, markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to a file instead of stdout")
	cmd.Flags().String("fail-on", config.DefaultFailOn,
		"Exit with status 1 when an issue at or above this severity remains (error, warning, notice, none)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoscan.yaml in current or home directory)")

	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of pages extracted and checked in parallel")
	cmd.Flags().Int("batch-size", config.DefaultBatchSize,
		"Number of files read per indexing batch")
	cmd.Flags().Bool("no-history", false,
		"Do not save this run to the history database")
	cmd.Flags().Bool("no-color", false,
		"Disable colored output")

	cmd.Flags().String("db-dir", config.XDGDataDir(), "History database directory")
	_ = cmd.Flags().MarkHidden("db-dir")

	return cmd
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := seolog.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScan(ctx, cfg, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig layers defaults, the configuration file and the flags the
// user actually set, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.OutputDirs = args
	cfg.Verbose = getVerboseFlag(cmd)

	flags := cmd.Flags()

	var err error
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg.ApplyFile(file)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if len(cfg.OutputDirs) == 0 {
		cfg.OutputDirs = []string{config.DefaultOutputDir}
	}

	stringFlags := []struct {
		name string
		dst  *string
	}{
		{"base-url", &cfg.BaseURL},
		{"main-domain", &cfg.MainDomain},
		{"default-language", &cfg.DefaultLanguage},
		{"format", &cfg.Format},
		{"output", &cfg.OutputFile},
		{"fail-on", &cfg.FailOn},
		{"db-dir", &cfg.DBDir},
	}
	for _, f := range stringFlags {
		if !flags.Changed(f.name) {
			continue
		}
		if *f.dst, err = flags.GetString(f.name); err != nil {
			return nil, err
		}
	}

	if flags.Changed("languages") {
		if cfg.Languages, err = flags.GetStringSlice("languages"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("disable-rule") {
		disabled, err := flags.GetStringSlice("disable-rule")
		if err != nil {
			return nil, err
		}
		cfg.DisabledRules = append(cfg.DisabledRules, disabled...)
	}

	if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch-size"); err != nil {
		return nil, err
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory

	if cfg.NoColor, err = flags.GetBool("no-color"); err != nil {
		return nil, err
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}

	return cfg, nil
}

// runScan audits every output directory, saves each run and writes one
// report per directory. It returns model.ErrIssuesFound when the fail-on
// gate trips.
func runScan(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	logger.Debug("starting scan",
		"targets", cfg.OutputDirs,
		"baseUrl", cfg.BaseURL,
		"format", cfg.Format,
		"saveToDB", cfg.SaveToDB,
	)

	validator, err := schema.New()
	if err != nil {
		logger.Warn("structured data schemas unavailable, schema checks skipped", "error", err)
	}

	factory := func() *pipeline.Pipeline {
		return pipeline.DefaultPipeline(cfg, validator, pipeline.WithLogger(logger))
	}
	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithBatchLogger(logger),
		pipeline.WithConcurrency(pipeline.DefaultBatchConcurrency),
	)

	audits, err := bp.ProcessBatch(ctx, cfg.OutputDirs)
	if err != nil {
		return fmt.Errorf("scan cancelled: %w", err)
	}

	var db *database.HistoryDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("history database unavailable, run not saved", "dir", cfg.DBDir, "error", err)
		} else {
			defer db.Close()
		}
	}

	out, closeOut, err := openOutput(cfg.OutputFile, stdout)
	if err != nil {
		return err
	}
	defer closeOut()

	w, err := report.New(cfg.Format, out,
		report.WithNoColor(cfg.NoColor || cfg.OutputFile != ""),
		report.WithToolVersion(getVersion()),
	)
	if err != nil {
		return err
	}

	var failed []error
	gated := 0
	gate, gateOn := cfg.FailOnSeverity()

	for _, audit := range audits {
		result := audit.Result
		if audit.Error != nil {
			failed = append(failed, fmt.Errorf("audit of %s failed: %s", audit.Target, audit.ErrorMessage))
		} else if db != nil {
			saveRun(ctx, db, result, logger)
		}

		if _, err := w.Write(result); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		if gateOn {
			gated += result.CountAtLeast(gate)
		}
	}

	if len(failed) > 0 {
		return errors.Join(failed...)
	}
	if gated > 0 {
		return fmt.Errorf("%w: %d issue(s) at or above %s", model.ErrIssuesFound, gated, gate)
	}
	return nil
}

// saveRun stores result under the absolute path of its output directory
// and copies the assigned run id back onto it.
func saveRun(ctx context.Context, db *database.HistoryDB, result *model.AuditResult, logger *slog.Logger) {
	stored := *result
	stored.Target = historyKey(result.Target)
	runID, err := db.SaveRun(ctx, &stored)
	if err != nil {
		logger.Warn("failed to save run", "target", result.Target, "error", err)
		return
	}
	result.RunID = runID
	logger.Debug("run saved", "target", stored.Target, "runId", runID)
}

// historyKey identifies an output directory across working directories.
func historyKey(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return filepath.Clean(dir)
}

// openOutput returns the report destination: the named file, created with
// its parent directories, or stdout.
func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // report path is user-provided
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
