package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nikogura/adgm-review/pkg/config"
	"github.com/nikogura/adgm-review/pkg/enrich"
	"github.com/nikogura/adgm-review/pkg/review"
	"github.com/nikogura/adgm-review/pkg/rules"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var rulesFile string

//nolint:gochecknoglobals // Cobra boilerplate
var noEnrich bool

//nolint:gochecknoglobals // Cobra boilerplate
var reviewCmd = &cobra.Command{
	Use:   "review [files or directories]",
	Short: "Review documents for ADGM compliance",
	Long: `Reviews one or more documents against the ADGM compliance rules.

Each document is classified, scanned for red flags, scored, and written back
as an annotated copy (reviewed_<original>). The batch is checked against the
detected business process checklist and a compliance_summary.json report is
written alongside the reviewed copies.

Examples:
  # Review a set of incorporation documents
  adgm-review review articles.json memorandum.json ubo_declaration.json

  # Review every document in a directory
  adgm-review review ./uploads

  # Review without calling the enrichment service
  adgm-review review --no-enrich ./uploads`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReview,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from config)")
	reviewCmd.Flags().StringVar(&rulesFile, "rules", "", "Rule table override file (YAML)")
	reviewCmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "Skip the enrichment service")
}

func runReview(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfigOrDefault()
	if err != nil {
		err = fmt.Errorf("failed to load config: %w", err)
		return err
	}

	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if rulesFile != "" {
		cfg.RulesFile = rulesFile
	}
	if noEnrich {
		cfg.Enrichment.Enabled = false
	}

	var table *rules.Table
	table, err = rules.Load(cfg.RulesFile)
	if err != nil {
		err = fmt.Errorf("failed to load rule table: %w", err)
		return err
	}

	logger := buildLogger()
	defer func() {
		_ = logger.Sync()
	}()

	var enricher enrich.Enricher = enrich.NewNoop()
	if cfg.Enrichment.Enabled {
		enricher, err = enrich.NewClaudeEnricher(cfg.AnthropicAPIKey, cfg.Model)
		if err != nil {
			err = fmt.Errorf("failed to create enricher: %w", err)
			return err
		}
	}

	var orch *review.Orchestrator
	orch, err = review.New(table,
		review.WithEnricher(enricher),
		review.WithLogger(logger),
		review.WithWorkers(cfg.Workers),
		review.WithEnrichTimeout(cfg.EnrichTimeout()),
	)
	if err != nil {
		err = fmt.Errorf("failed to create orchestrator: %w", err)
		return err
	}

	var files []review.File
	files, err = collectFiles(args)
	if err != nil {
		err = fmt.Errorf("failed to collect input files: %w", err)
		return err
	}

	if len(files) == 0 {
		err = errors.New("no input documents found")
		return err
	}

	var report review.Report
	report, err = orch.Run(ctx, files)
	if err != nil {
		err = fmt.Errorf("review run failed: %w", err)
		return err
	}

	err = report.WriteOutputs(cfg.OutputDir)
	if err != nil {
		err = fmt.Errorf("failed to write outputs: %w", err)
		return err
	}

	printReportSummary(report, cfg.OutputDir)

	return err
}

// loadConfigOrDefault loads the config file, falling back to the built-in
// defaults when none exists so a plain offline review needs no setup.
func loadConfigOrDefault() (cfg config.Config, err error) {
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			cfg = config.Default()
			err = nil
		}
	}

	return cfg, err
}

func buildLogger() (logger *zap.Logger) {
	var err error
	if getVerbose() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		logger = zap.NewNop()
	}

	return logger
}

// collectFiles expands the argument list into named document inputs.
// Directories contribute their regular files, one level deep.
func collectFiles(args []string) (files []review.File, err error) {
	var paths []string

	for _, arg := range args {
		var info os.FileInfo
		info, err = os.Stat(arg)
		if err != nil {
			err = fmt.Errorf("cannot stat %s: %w", arg, err)
			return files, err
		}

		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		var entries []os.DirEntry
		entries, err = os.ReadDir(arg)
		if err != nil {
			err = fmt.Errorf("cannot read directory %s: %w", arg, err)
			return files, err
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if entry.Name() == review.SummaryFilename {
				continue
			}
			paths = append(paths, filepath.Join(arg, entry.Name()))
		}
	}

	for _, path := range paths {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			err = fmt.Errorf("cannot read %s: %w", path, err)
			return files, err
		}

		files = append(files, review.File{
			Name: filepath.Base(path),
			Data: data,
		})
	}

	return files, err
}

func printReportSummary(report review.Report, outDir string) {
	fmt.Printf("Process: %s\n", report.Process)
	fmt.Printf("Documents reviewed: %d\n", report.DocumentsUploaded)
	fmt.Printf("Overall score: %.1f/100 (%s)\n", report.Overall.AverageScore, report.Overall.Status)
	fmt.Printf("Checklist completeness: %.1f%%\n", report.CompletenessPct)

	if len(report.MissingDocuments) > 0 {
		fmt.Println("Missing documents:")
		for _, doc := range report.MissingDocuments {
			fmt.Printf("  - %s\n", doc)
		}
	}

	for _, record := range report.Documents {
		marker := ""
		if record.Failed {
			marker = " [FAILED]"
		}
		fmt.Printf("  %s: %s, score %d/100 (%s)%s\n",
			record.Filename, record.DocType, record.ComplianceScore, record.Status, marker)
	}

	fmt.Printf("Report written to %s\n", filepath.Join(outDir, review.SummaryFilename))
}
