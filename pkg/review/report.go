package review

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikogura/adgm-review/pkg/checklist"
	"github.com/nikogura/adgm-review/pkg/detector"
	"github.com/nikogura/adgm-review/pkg/rules"
	"github.com/nikogura/adgm-review/pkg/scorer"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SummaryFilename is the machine-readable report written per batch.
const SummaryFilename = "compliance_summary.json"

// Record is the immutable result of one document's review. Failed
// documents keep a record with an explanatory note so nothing disappears
// from the report silently.
type Record struct {
	Filename         string           `json:"original_filename"`
	DocType          rules.DocType    `json:"document_type"`
	Issues           []detector.Issue `json:"issues_found"`
	Metrics          detector.Metrics `json:"metrics"`
	ComplianceScore  int              `json:"compliance_score"`
	Status           scorer.Status    `json:"status"`
	EnrichedAnalysis string           `json:"enhanced_analysis,omitempty"`
	ReviewedPath     string           `json:"reviewed_document_path,omitempty"`
	Failed           bool             `json:"failed,omitempty"`
	FailureNote      string           `json:"failure_note,omitempty"`

	annotated []byte
}

// AnnotatedCopy returns the annotated document bytes, nil when annotation
// was skipped.
func (r *Record) AnnotatedCopy() (data []byte) {
	data = r.annotated
	return data
}

// ReportIssue is the flattened issue shape in the machine-readable report.
type ReportIssue struct {
	Document      string         `json:"document"`
	Section       string         `json:"section"`
	Issue         string         `json:"issue"`
	Severity      rules.Severity `json:"severity"`
	Suggestion    string         `json:"suggestion"`
	ADGMReference string         `json:"adgm_reference,omitempty"`
}

// Summary aggregates issue counts across the batch.
type Summary struct {
	TotalDocuments int             `json:"total_documents"`
	ProcessType    string          `json:"process_type"`
	DocumentTypes  []rules.DocType `json:"document_types_found"`
	TotalIssues    int             `json:"total_issues"`
	CriticalIssues int             `json:"critical_issues"`
	Warnings       int             `json:"warnings"`
}

// Overall is the cross-document compliance rollup.
type Overall struct {
	AverageScore      float64 `json:"average_score"`
	Status            string  `json:"status"`
	TotalIssues       int     `json:"total_issues"`
	DocumentsReviewed int     `json:"documents_reviewed"`
}

// Report is the full machine-readable output of one review run.
type Report struct {
	RunID             string           `json:"run_id"`
	GeneratedAt       time.Time        `json:"generated_at"`
	Process           string           `json:"process"`
	DocumentsUploaded int              `json:"documents_uploaded"`
	RequiredDocuments int              `json:"required_documents"`
	MissingDocuments  []string         `json:"missing_documents"`
	CompletenessPct   float64          `json:"completeness_percentage"`
	Overall           Overall          `json:"overall_compliance"`
	Summary           Summary          `json:"summary"`
	Checklist         checklist.Report `json:"process_analysis"`
	Documents         []Record         `json:"documents"`
	IssuesFound       []ReportIssue    `json:"issues_found"`
}

// WriteOutputs writes the annotated copies and the summary JSON to the
// output directory. Annotated copies follow the reviewed_<original>
// naming convention, one file per document, no shared paths.
func (r *Report) WriteOutputs(outputDir string) (err error) {
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	for i := range r.Documents {
		record := &r.Documents[i]
		if record.annotated == nil {
			continue
		}

		outPath := filepath.Join(outputDir, "reviewed_"+filepath.Base(record.Filename))
		err = os.WriteFile(outPath, record.annotated, 0644)
		if err != nil {
			err = errors.Wrapf(err, "failed to write reviewed document: %s", outPath)
			return err
		}

		record.ReviewedPath = outPath
	}

	var data []byte
	data, err = json.MarshalIndent(r, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal report")
		return err
	}

	summaryPath := filepath.Join(outputDir, SummaryFilename)
	err = os.WriteFile(summaryPath, data, 0644)
	if err != nil {
		err = errors.Wrapf(err, "failed to write report: %s", summaryPath)
		return err
	}

	return err
}

// sectionLabel renders a flag kind as the report's section name.
func sectionLabel(kind rules.FlagKind) (label string) {
	titleCaser := cases.Title(language.English)
	label = titleCaser.String(strings.ReplaceAll(string(kind), "_", " "))

	return label
}
