package annotate

import (
	"strings"
	"testing"
	"time"

	"github.com/nikogura/adgm-review/pkg/detector"
	"github.com/nikogura/adgm-review/pkg/document"
	"github.com/nikogura/adgm-review/pkg/rules"
	"github.com/nikogura/adgm-review/pkg/scorer"
)

const (
	headerParagraphs  = 10
	summaryParagraphs = 4
)

func fixedBuilder() (builder *Builder) {
	builder = New()
	builder.now = func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return builder
}

func testIssue(kind rules.FlagKind, index int, severity rules.Severity) (issue detector.Issue) {
	issue = detector.Issue{
		FlagKind:       kind,
		ParagraphIndex: index,
		Excerpt:        "excerpt",
		Description:    "test issue description",
		Pattern:        "test pattern",
		Severity:       severity,
		Suggestion:     "test suggestion",
		ADGMReference:  "ADGM General Regulations",
	}
	return issue
}

func TestAnnotateParagraphCount(t *testing.T) {
	builder := fixedBuilder()

	src := document.FromText("one\ntwo\nthree\nfour")

	review := Review{
		DocTypeLabel: "Board Resolution",
		Issues: []detector.Issue{
			testIssue(rules.FlagJurisdiction, 1, rules.SeverityHigh),
			testIssue(rules.FlagMissingSignature, 3, rules.SeverityMedium),
		},
		Metrics: detector.Metrics{TotalFlags: 2, CriticalIssues: 1, Warnings: 1},
		Score:   70,
		Status:  scorer.StatusMinorIssues,
	}

	out, err := builder.Annotate(src, review)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	want := 4 + headerParagraphs + 2 + summaryParagraphs
	if len(out.Paragraphs) != want {
		t.Errorf("Expected %d paragraphs, got %d", want, len(out.Paragraphs))
	}
}

func TestAnnotatePreservesOriginalText(t *testing.T) {
	builder := fixedBuilder()

	lines := []string{"alpha clause", "beta clause", "gamma clause"}
	src := document.FromText(strings.Join(lines, "\n"))

	review := Review{
		DocTypeLabel: "Articles of Association",
		Issues: []detector.Issue{
			testIssue(rules.FlagGoverningLaw, 0, rules.SeverityHigh),
		},
		Metrics: detector.Metrics{TotalFlags: 1, CriticalIssues: 1},
		Score:   80,
		Status:  scorer.StatusMinorIssues,
	}

	out, err := builder.Annotate(src, review)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	for _, line := range lines {
		found := false
		for _, para := range out.Paragraphs {
			if para.Text() == line {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Original paragraph %q missing from annotated output", line)
		}
	}
}

func TestAnnotateDoesNotMutateSource(t *testing.T) {
	builder := fixedBuilder()

	src := document.FromText("only paragraph")

	review := Review{
		DocTypeLabel: "Unknown",
		Issues: []detector.Issue{
			testIssue(rules.FlagJurisdiction, 0, rules.SeverityHigh),
		},
		Metrics: detector.Metrics{TotalFlags: 1, CriticalIssues: 1},
		Score:   80,
		Status:  scorer.StatusMinorIssues,
	}

	_, err := builder.Annotate(src, review)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	if len(src.Paragraphs) != 1 {
		t.Errorf("Source paragraph count changed: %d", len(src.Paragraphs))
	}
	if src.Paragraphs[0].Text() != "only paragraph" {
		t.Errorf("Source text changed: %q", src.Paragraphs[0].Text())
	}
	if src.Paragraphs[0].Runs[0].Highlight != "" {
		t.Error("Source paragraph picked up a highlight")
	}
}

func TestAnnotateCommentPlacement(t *testing.T) {
	builder := fixedBuilder()

	src := document.FromText("zero\none\ntwo\nthree")

	// Issues deliberately out of paragraph order: the ledger must still
	// land each comment directly under its paragraph.
	review := Review{
		DocTypeLabel: "Board Resolution",
		Issues: []detector.Issue{
			testIssue(rules.FlagMissingSignature, 3, rules.SeverityMedium),
			testIssue(rules.FlagJurisdiction, 1, rules.SeverityHigh),
		},
		Metrics: detector.Metrics{TotalFlags: 2, CriticalIssues: 1, Warnings: 1},
		Score:   70,
		Status:  scorer.StatusMinorIssues,
	}

	out, err := builder.Annotate(src, review)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	for _, target := range []string{"one", "three"} {
		idx := -1
		for i, para := range out.Paragraphs {
			if para.Text() == target {
				idx = i
				break
			}
		}
		if idx < 0 {
			t.Fatalf("Paragraph %q not found", target)
		}

		next := out.Paragraphs[idx+1].Text()
		if !strings.HasPrefix(next, "COMPLIANCE ISSUE") {
			t.Errorf("Expected comment after %q, got %q", target, next)
		}
	}

	// Unflagged paragraphs get no comment.
	for i, para := range out.Paragraphs {
		if para.Text() == "zero" {
			next := out.Paragraphs[i+1].Text()
			if strings.HasPrefix(next, "COMPLIANCE ISSUE") {
				t.Error("Unexpected comment after unflagged paragraph")
			}
		}
	}
}

func TestAnnotateHighlightColors(t *testing.T) {
	builder := fixedBuilder()

	src := document.FromText("high\nmedium\nlow")

	review := Review{
		DocTypeLabel: "Board Resolution",
		Issues: []detector.Issue{
			testIssue(rules.FlagJurisdiction, 0, rules.SeverityHigh),
			testIssue(rules.FlagSignatureReqs, 1, rules.SeverityMedium),
			testIssue(rules.FlagMissingClause, 2, rules.SeverityLow),
		},
		Metrics: detector.Metrics{TotalFlags: 3, CriticalIssues: 1, Warnings: 1},
		Score:   70,
		Status:  scorer.StatusMinorIssues,
	}

	out, err := builder.Annotate(src, review)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	wantColors := map[string]string{
		"high":   "red",
		"medium": "yellow",
		"low":    "green",
	}

	for text, color := range wantColors {
		for _, para := range out.Paragraphs {
			if para.Text() != text {
				continue
			}
			if para.Runs[0].Highlight != color {
				t.Errorf("Paragraph %q: expected highlight %q, got %q", text, color, para.Runs[0].Highlight)
			}
		}
	}
}

func TestAnnotateSkipsDocumentLevelIssues(t *testing.T) {
	builder := fixedBuilder()

	src := document.FromText("single paragraph")

	review := Review{
		DocTypeLabel: "Unknown",
		Issues: []detector.Issue{
			testIssue(rules.FlagMissingSignature, -1, rules.SeverityMedium),
			testIssue(rules.FlagMissingSection, 99, rules.SeverityHigh),
		},
		Metrics: detector.Metrics{TotalFlags: 2, CriticalIssues: 1, Warnings: 1},
		Score:   70,
		Status:  scorer.StatusMinorIssues,
	}

	out, err := builder.Annotate(src, review)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	// No comments inserted, only header + original + summary.
	want := 1 + headerParagraphs + summaryParagraphs
	if len(out.Paragraphs) != want {
		t.Errorf("Expected %d paragraphs, got %d", want, len(out.Paragraphs))
	}
}

func TestAnnotateGuidanceIncluded(t *testing.T) {
	builder := fixedBuilder()

	src := document.FromText("flagged")

	issue := testIssue(rules.FlagJurisdiction, 0, rules.SeverityHigh)
	issue.Guidance = "ADGM Courts have exclusive jurisdiction over ADGM entities."

	review := Review{
		DocTypeLabel: "Board Resolution",
		Issues:       []detector.Issue{issue},
		Metrics:      detector.Metrics{TotalFlags: 1, CriticalIssues: 1},
		Score:        80,
		Status:       scorer.StatusMinorIssues,
	}

	out, err := builder.Annotate(src, review)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	found := false
	for _, para := range out.Paragraphs {
		if strings.Contains(para.Text(), "Detailed Guidance: ADGM Courts have exclusive jurisdiction") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected guidance text in the comment paragraph")
	}
}

func TestAnnotateNilDocument(t *testing.T) {
	builder := fixedBuilder()

	_, err := builder.Annotate(nil, Review{})
	if err == nil {
		t.Error("Expected error annotating nil document, got nil")
	}
}

func TestAnnotateSummaryBreakdown(t *testing.T) {
	builder := fixedBuilder()

	src := document.FromText("first\nsecond")

	review := Review{
		DocTypeLabel: "Board Resolution",
		Issues: []detector.Issue{
			testIssue(rules.FlagJurisdiction, 0, rules.SeverityHigh),
			testIssue(rules.FlagJurisdiction, 1, rules.SeverityHigh),
			testIssue(rules.FlagMissingSignature, 1, rules.SeverityMedium),
		},
		Metrics: detector.Metrics{TotalFlags: 3, CriticalIssues: 2, Warnings: 1},
		Score:   50,
		Status:  scorer.StatusMajorIssues,
	}

	out, err := builder.Annotate(src, review)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	summary := out.Paragraphs[len(out.Paragraphs)-1].Text()

	if !strings.Contains(summary, "Jurisdiction: 2 issue(s)") {
		t.Errorf("Expected jurisdiction breakdown in summary, got:\n%s", summary)
	}
	if !strings.Contains(summary, "Missing Signature: 1 issue(s)") {
		t.Errorf("Expected missing signature breakdown in summary, got:\n%s", summary)
	}
	if !strings.Contains(summary, "Overall Compliance Score: 50/100") {
		t.Errorf("Expected score in summary, got:\n%s", summary)
	}
}
