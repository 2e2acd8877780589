package review

import (
	"context"
	"math"
	"time"

	"github.com/nikogura/adgm-review/pkg/annotate"
	"github.com/nikogura/adgm-review/pkg/checklist"
	"github.com/nikogura/adgm-review/pkg/classifier"
	"github.com/nikogura/adgm-review/pkg/detector"
	"github.com/nikogura/adgm-review/pkg/document"
	"github.com/nikogura/adgm-review/pkg/enrich"
	"github.com/nikogura/adgm-review/pkg/rules"
	"github.com/nikogura/adgm-review/pkg/scorer"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWorkers bounds the per-document worker pool.
	DefaultWorkers = 4
	// DefaultEnrichTimeout bounds each enrichment call.
	DefaultEnrichTimeout = 10 * time.Second
)

// File is one named input document.
type File struct {
	Name string
	Data []byte
}

// Orchestrator drives the review pipeline over a batch of documents.
// Per-document work runs in parallel workers; the checklist engine runs
// only after every document's type is known.
type Orchestrator struct {
	table         *rules.Table
	classifier    *classifier.Classifier
	detector      *detector.Detector
	checklist     *checklist.Engine
	builder       *annotate.Builder
	enricher      enrich.Enricher
	logger        *zap.Logger
	workers       int
	enrichTimeout time.Duration
}

// Option configures an orchestrator.
type Option func(o *Orchestrator)

// WithEnricher injects the enrichment collaborator.
func WithEnricher(enricher enrich.Enricher) (opt Option) {
	opt = func(o *Orchestrator) {
		o.enricher = enricher
	}
	return opt
}

// WithLogger injects the run logger.
func WithLogger(logger *zap.Logger) (opt Option) {
	opt = func(o *Orchestrator) {
		o.logger = logger
	}
	return opt
}

// WithWorkers sets the worker pool size.
func WithWorkers(workers int) (opt Option) {
	opt = func(o *Orchestrator) {
		if workers > 0 {
			o.workers = workers
		}
	}
	return opt
}

// WithEnrichTimeout sets the per-call enrichment timeout.
func WithEnrichTimeout(timeout time.Duration) (opt Option) {
	opt = func(o *Orchestrator) {
		if timeout > 0 {
			o.enrichTimeout = timeout
		}
	}
	return opt
}

// New creates an orchestrator. The rule table is validated here so a
// broken configuration fails fast, before any document is processed.
func New(table *rules.Table, opts ...Option) (orch *Orchestrator, err error) {
	err = table.Validate()
	if err != nil {
		err = errors.Wrap(err, "invalid rule table")
		return orch, err
	}

	orch = &Orchestrator{
		table:         table,
		classifier:    classifier.New(table),
		detector:      detector.New(table),
		checklist:     checklist.New(table),
		builder:       annotate.New(),
		enricher:      enrich.NewNoop(),
		logger:        zap.NewNop(),
		workers:       DefaultWorkers,
		enrichTimeout: DefaultEnrichTimeout,
	}

	for _, opt := range opts {
		opt(orch)
	}

	return orch, err
}

// Run reviews the batch and assembles the overall report. Individual
// document failures are contained in their records; only cancellation
// aborts the run.
func (o *Orchestrator) Run(ctx context.Context, files []File) (report Report, err error) {
	runID := uuid.NewString()
	logger := o.logger.With(zap.String("run_id", runID))

	logger.Info("starting review run", zap.Int("documents", len(files)))

	records := make([]Record, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			records[i] = o.reviewOne(gctx, logger, file)
			return nil
		})
	}

	// Join barrier: the checklist engine needs every document's type.
	err = g.Wait()
	if err != nil {
		err = errors.Wrap(err, "review run aborted")
		return report, err
	}

	docTypes := make([]rules.DocType, 0, len(records))
	for _, record := range records {
		docTypes = append(docTypes, record.DocType)
	}

	process := o.checklist.DetectProcess(docTypes)
	checklistReport := o.checklist.BuildReport(docTypes, process)

	report = o.assemble(runID, records, checklistReport)

	logger.Info("review run complete",
		zap.String("process", report.Process),
		zap.Float64("average_score", report.Overall.AverageScore),
		zap.Int("total_issues", report.Summary.TotalIssues))

	return report, err
}

// reviewOne runs the per-document pipeline: parse, classify, detect,
// decorate with guidance, score, annotate. Failures never escape; an
// unreadable document yields a failed record with score zero.
func (o *Orchestrator) reviewOne(ctx context.Context, logger *zap.Logger, file File) (record Record) {
	docLogger := logger.With(zap.String("document", file.Name))
	docLogger.Debug("reviewing document")

	record = Record{
		Filename: file.Name,
		DocType:  rules.DocTypeUnknown,
		Issues:   []detector.Issue{},
	}

	doc, parseErr := document.Parse(file.Data)
	if parseErr != nil {
		docLogger.Warn("document unreadable, skipping annotation", zap.Error(parseErr))
		record.Failed = true
		record.FailureNote = "document could not be read: " + parseErr.Error()
		record.ComplianceScore = 0
		record.Status = scorer.StatusNonCompliant
		return record
	}

	record.DocType = o.classifier.Classify(doc, file.Name)

	issues, metrics := o.detector.Analyze(doc, record.DocType)

	o.decorateGuidance(ctx, docLogger, record.DocType, issues)

	score, status := scorer.Score(issues)

	record.Issues = issues
	record.Metrics = metrics
	record.ComplianceScore = score
	record.Status = status
	record.EnrichedAnalysis = o.enrichedAnalysis(ctx, docLogger, doc, record.DocType, issues)

	annotated, annErr := o.builder.Annotate(doc, annotate.Review{
		DocTypeLabel: o.table.Label(record.DocType),
		Issues:       issues,
		Metrics:      metrics,
		Score:        score,
		Status:       status,
	})
	if annErr != nil {
		docLogger.Warn("annotation failed", zap.Error(annErr))
		record.FailureNote = "annotation failed: " + annErr.Error()
		return record
	}

	var encodeErr error
	record.annotated, encodeErr = annotated.Bytes()
	if encodeErr != nil {
		docLogger.Warn("failed to encode annotated copy", zap.Error(encodeErr))
		record.FailureNote = "annotated copy could not be encoded: " + encodeErr.Error()
	}

	return record
}

// decorateGuidance fetches advisory text for each distinct flag kind and
// attaches it to the matching issues. Best effort with a bounded timeout;
// failure degrades to no guidance.
func (o *Orchestrator) decorateGuidance(ctx context.Context, logger *zap.Logger, docType rules.DocType, issues []detector.Issue) {
	guidanceByKind := make(map[rules.FlagKind]string)

	for i := range issues {
		kind := issues[i].FlagKind

		guidance, fetched := guidanceByKind[kind]
		if !fetched {
			guidance = o.fetchGuidance(ctx, logger, docType, kind)
			guidanceByKind[kind] = guidance
		}

		issues[i].Guidance = guidance
	}
}

func (o *Orchestrator) fetchGuidance(ctx context.Context, logger *zap.Logger, docType rules.DocType, kind rules.FlagKind) (guidance string) {
	callCtx, cancel := context.WithTimeout(ctx, o.enrichTimeout)
	defer cancel()

	guidance, err := o.enricher.Guidance(callCtx, docType, kind)
	if err != nil {
		logger.Debug("enrichment unavailable",
			zap.String("flag_kind", string(kind)),
			zap.Error(err))
		guidance = ""
	}

	return guidance
}

func (o *Orchestrator) enrichedAnalysis(ctx context.Context, logger *zap.Logger, doc *document.Document, docType rules.DocType, issues []detector.Issue) (summary string) {
	callCtx, cancel := context.WithTimeout(ctx, o.enrichTimeout)
	defer cancel()

	summary, err := o.enricher.EnrichedAnalysis(callCtx, doc.PlainText(), docType, issues)
	if err != nil {
		logger.Debug("enriched analysis unavailable", zap.Error(err))
		summary = ""
	}

	return summary
}

// assemble folds per-document records and the checklist report into the
// overall batch report.
func (o *Orchestrator) assemble(runID string, records []Record, checklistReport checklist.Report) (report Report) {
	report = Report{
		RunID:             runID,
		GeneratedAt:       time.Now(),
		Process:           checklistReport.Process,
		DocumentsUploaded: len(records),
		RequiredDocuments: checklistReport.RequiredCount,
		MissingDocuments:  checklistReport.MissingDocuments,
		CompletenessPct:   checklistReport.CompletenessPct,
		Checklist:         checklistReport,
		Documents:         records,
		IssuesFound:       []ReportIssue{},
	}

	docTypes := make([]rules.DocType, 0, len(records))
	totalScore := 0

	for _, record := range records {
		docTypes = append(docTypes, record.DocType)
		totalScore += record.ComplianceScore

		report.Summary.TotalIssues += len(record.Issues)
		report.Summary.CriticalIssues += record.Metrics.CriticalIssues
		report.Summary.Warnings += record.Metrics.Warnings

		for _, issue := range record.Issues {
			report.IssuesFound = append(report.IssuesFound, ReportIssue{
				Document:      record.Filename,
				Section:       sectionLabel(issue.FlagKind),
				Issue:         issue.Description,
				Severity:      issue.Severity,
				Suggestion:    issue.Suggestion,
				ADGMReference: issue.ADGMReference,
			})
		}
	}

	report.Summary.TotalDocuments = len(records)
	report.Summary.ProcessType = checklistReport.Process
	report.Summary.DocumentTypes = docTypes

	if len(records) == 0 {
		report.Overall = Overall{
			AverageScore: 0,
			Status:       "No Documents",
		}
		return report
	}

	average := float64(totalScore) / float64(len(records))
	report.Overall = Overall{
		AverageScore:      math.Round(average*10) / 10,
		Status:            string(scorer.StatusFor(int(average))),
		TotalIssues:       report.Summary.TotalIssues,
		DocumentsReviewed: len(records),
	}

	return report
}
