package annotate

import (
	"fmt"
	"strings"
	"time"

	"github.com/nikogura/adgm-review/pkg/detector"
	"github.com/nikogura/adgm-review/pkg/document"
	"github.com/nikogura/adgm-review/pkg/rules"
	"github.com/nikogura/adgm-review/pkg/scorer"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Review carries everything the builder needs about one analyzed document.
type Review struct {
	DocTypeLabel string
	Issues       []detector.Issue
	Metrics      detector.Metrics
	Score        int
	Status       scorer.Status
}

// Builder produces the annotated copy of a reviewed document: header block,
// inline highlights and comments, and a trailing compliance summary.
type Builder struct {
	now func() time.Time
}

// New creates an annotation builder.
func New() (builder *Builder) {
	builder = &Builder{
		now: time.Now,
	}

	return builder
}

// Annotate builds the reviewed copy. The source document is never mutated;
// all insertions happen on a deep copy.
//
// Original paragraph positions drift as the header and comment paragraphs
// go in, so the builder keeps a ledger mapping each original index to its
// current position and updates it after every insertion. Resolving targets
// against a stale snapshot would land comments on the wrong paragraph.
func (b *Builder) Annotate(src *document.Document, review Review) (out *document.Document, err error) {
	if src == nil {
		err = errors.Wrap(document.ErrUnreadable, "no document to annotate")
		return out, err
	}

	out = src.Copy()
	origCount := len(src.Paragraphs)

	header := b.headerBlock(review)
	for i, para := range header {
		out.InsertAt(i, para)
	}

	// positions[i] is the current index of original paragraph i.
	positions := make([]int, origCount)
	for i := range positions {
		positions[i] = i + len(header)
	}

	for _, issue := range review.Issues {
		orig := issue.ParagraphIndex
		if orig < 0 || orig >= origCount {
			// Document-level issue, nothing to anchor to.
			continue
		}

		current := positions[orig]
		out.Highlight(current, highlightColor(issue.Severity))
		out.InsertAt(current+1, commentParagraph(issue))

		for i := orig + 1; i < origCount; i++ {
			positions[i]++
		}
	}

	for _, para := range b.summaryBlock(review) {
		out.Append(para)
	}

	return out, err
}

// headerBlock builds the review header inserted at the top of the copy.
func (b *Builder) headerBlock(review Review) (paras []document.Paragraph) {
	title := document.Paragraph{
		Runs: []document.Run{{Text: "=== ADGM COMPLIANCE REVIEW ===", Bold: true, Color: "FF0000"}},
	}

	lines := []string{
		fmt.Sprintf("Document Type: %s", review.DocTypeLabel),
		fmt.Sprintf("Compliance Score: %d/100", review.Score),
		fmt.Sprintf("Total Issues Found: %d", review.Metrics.TotalFlags),
		fmt.Sprintf("Critical Issues: %d", review.Metrics.CriticalIssues),
		fmt.Sprintf("Warnings: %d", review.Metrics.Warnings),
		fmt.Sprintf("Status: %s", review.Status),
		fmt.Sprintf("Review Date: %s", b.now().Format("2006-01-02 15:04:05")),
	}

	paras = append(paras, title)
	for _, line := range lines {
		paras = append(paras, document.NewParagraph(line))
	}
	paras = append(paras, document.NewParagraph(strings.Repeat("=", 80)))
	paras = append(paras, document.NewParagraph(""))

	return paras
}

// commentParagraph formats one issue as an italic, severity-colored
// paragraph placed immediately after the flagged one.
func commentParagraph(issue detector.Issue) (para document.Paragraph) {
	var text strings.Builder

	fmt.Fprintf(&text, "COMPLIANCE ISSUE - %s Severity\n", issue.Severity)
	fmt.Fprintf(&text, "Issue: %s\n", issue.Description)
	if issue.Pattern != "" {
		fmt.Fprintf(&text, "Found Pattern: %s\n", issue.Pattern)
	}
	fmt.Fprintf(&text, "Suggestion: %s\n", issue.Suggestion)
	fmt.Fprintf(&text, "ADGM Reference: %s", issue.ADGMReference)
	if issue.Guidance != "" {
		fmt.Fprintf(&text, "\nDetailed Guidance: %s", issue.Guidance)
	}

	para = document.Paragraph{
		Runs: []document.Run{{Text: text.String(), Italic: true, Color: commentColor(issue.Severity)}},
	}

	return para
}

// summaryBlock builds the trailing compliance summary.
func (b *Builder) summaryBlock(review Review) (paras []document.Paragraph) {
	paras = append(paras, document.NewParagraph(""))
	paras = append(paras, document.NewParagraph(strings.Repeat("=", 80)))

	title := document.Paragraph{
		Runs: []document.Run{{Text: "COMPLIANCE REVIEW SUMMARY", Bold: true, Color: "00008B"}},
	}
	paras = append(paras, title)

	var body strings.Builder
	fmt.Fprintf(&body, "Overall Compliance Score: %d/100\n", review.Score)
	fmt.Fprintf(&body, "Compliance Status: %s\n\n", review.Status)
	fmt.Fprintf(&body, "Issues Breakdown:\n")
	fmt.Fprintf(&body, "- Critical Issues (High): %d\n", review.Metrics.CriticalIssues)
	fmt.Fprintf(&body, "- Warnings (Medium): %d\n", review.Metrics.Warnings)
	fmt.Fprintf(&body, "- Total Issues: %d\n", review.Metrics.TotalFlags)

	if len(review.Issues) > 0 {
		fmt.Fprintf(&body, "\nIssue Categories Found:\n")
		for _, kind := range categoryOrder(review.Issues) {
			count := 0
			for _, issue := range review.Issues {
				if issue.FlagKind == kind {
					count++
				}
			}
			fmt.Fprintf(&body, "- %s: %d issue(s)\n", flagKindTitle(kind), count)
		}
	}

	fmt.Fprintf(&body, "\nNext Steps:\n")
	fmt.Fprintf(&body, "1. Address all critical (High severity) issues immediately\n")
	fmt.Fprintf(&body, "2. Review and resolve warning (Medium severity) issues\n")
	fmt.Fprintf(&body, "3. Ensure all required documents are uploaded for the process\n")
	fmt.Fprintf(&body, "4. Re-submit for review after making corrections\n")
	fmt.Fprintf(&body, "\nReview completed on: %s", b.now().Format("2006-01-02 15:04:05"))

	paras = append(paras, document.NewParagraph(body.String()))

	return paras
}

// categoryOrder returns the distinct flag kinds in first-seen order so the
// summary breakdown is deterministic.
func categoryOrder(issues []detector.Issue) (kinds []rules.FlagKind) {
	seen := make(map[rules.FlagKind]bool)

	for _, issue := range issues {
		if seen[issue.FlagKind] {
			continue
		}
		seen[issue.FlagKind] = true
		kinds = append(kinds, issue.FlagKind)
	}

	return kinds
}

func flagKindTitle(kind rules.FlagKind) (title string) {
	titleCaser := cases.Title(language.English)
	title = titleCaser.String(strings.ReplaceAll(string(kind), "_", " "))

	return title
}

func highlightColor(severity rules.Severity) (color string) {
	switch severity {
	case rules.SeverityHigh:
		color = "red"
	case rules.SeverityMedium:
		color = "yellow"
	case rules.SeverityLow:
		color = "green"
	default:
		color = "yellow"
	}

	return color
}

func commentColor(severity rules.Severity) (color string) {
	switch severity {
	case rules.SeverityHigh:
		color = "DC143C" // crimson
	case rules.SeverityMedium:
		color = "FF8C00" // dark orange
	case rules.SeverityLow:
		color = "4682B4" // steel blue
	default:
		color = "4682B4"
	}

	return color
}
