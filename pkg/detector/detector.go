package detector

import (
	"fmt"
	"strings"

	"github.com/nikogura/adgm-review/pkg/document"
	"github.com/nikogura/adgm-review/pkg/rules"
)

// excerptLimit caps the flagged text carried on an issue.
const excerptLimit = 200

// Issue is one detected compliance defect. Issues are immutable once
// created, except for the optional Guidance decoration added after
// detection by the enrichment side channel.
type Issue struct {
	FlagKind       rules.FlagKind `json:"flag_type"`
	ParagraphIndex int            `json:"paragraph_index"`
	Excerpt        string         `json:"paragraph_text"`
	Description    string         `json:"issue"`
	Pattern        string         `json:"pattern_found,omitempty"`
	Severity       rules.Severity `json:"severity"`
	Suggestion     string         `json:"suggestion"`
	ADGMReference  string         `json:"adgm_reference"`
	Guidance       string         `json:"rag_guidance,omitempty"`
}

// Metrics summarizes one document's detection pass.
type Metrics struct {
	TotalFlags     int `json:"total_flags"`
	CriticalIssues int `json:"critical_issues"`
	Warnings       int `json:"warnings"`
}

// Detector scans classified documents against the red-flag table and the
// structural rules for their type.
type Detector struct {
	table *rules.Table
}

// New creates a detector backed by the given rule table.
func New(table *rules.Table) (det *Detector) {
	det = &Detector{
		table: table,
	}

	return det
}

// Analyze runs the full detection pass: red-flag patterns paragraph by
// paragraph, then the signature-block check, then the type-specific
// section checks. Issue order follows that sequence and is deterministic.
func (d *Detector) Analyze(doc *document.Document, docType rules.DocType) (issues []Issue, metrics Metrics) {
	issues = []Issue{}

	if doc == nil {
		return issues, metrics
	}

	issues = append(issues, d.scanPatterns(doc)...)
	issues = append(issues, d.checkSignature(doc)...)
	issues = append(issues, d.checkSections(doc, docType)...)

	metrics = measure(issues)

	return issues, metrics
}

// scanPatterns emits one issue per (paragraph, flag kind, pattern) hit.
// Duplicate patterns within the same paragraph each emit separately.
func (d *Detector) scanPatterns(doc *document.Document) (issues []Issue) {
	for i, para := range doc.Paragraphs {
		text := para.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		textLower := strings.ToLower(text)

		for _, kind := range d.table.FlagKindOrder {
			flag := d.table.RedFlags[kind]
			for _, pattern := range flag.Patterns {
				if !strings.Contains(textLower, pattern) {
					continue
				}

				issues = append(issues, Issue{
					FlagKind:       kind,
					ParagraphIndex: i,
					Excerpt:        excerpt(text),
					Description:    flag.Description,
					Pattern:        pattern,
					Severity:       flag.Severity,
					Suggestion:     "Replace with: " + flag.Correct,
					ADGMReference:  d.table.Reference(kind),
				})
			}
		}
	}

	return issues
}

// checkSignature emits one issue when none of the signature keywords
// appear anywhere in the document, anchored at the last paragraph.
func (d *Detector) checkSignature(doc *document.Document) (issues []Issue) {
	allText := strings.ToLower(doc.PlainText())

	for _, keyword := range d.table.SignatureKeywords {
		if strings.Contains(allText, keyword) {
			return issues
		}
	}

	// -1 marks a document-level issue when there is nothing to anchor to.
	anchor := len(doc.Paragraphs) - 1

	issues = append(issues, Issue{
		FlagKind:       rules.FlagMissingSignature,
		ParagraphIndex: anchor,
		Excerpt:        "End of document",
		Description:    "Document appears to be missing signature blocks",
		Severity:       rules.SeverityMedium,
		Suggestion:     "Add proper signature blocks for authorized signatories",
		ADGMReference:  d.table.Reference(rules.FlagMissingSignature),
	})

	return issues
}

// checkSections runs the structural requirements for the document type.
// Types without an entry in the section table have no checks; adding a
// type is a table entry, not new branch logic.
func (d *Detector) checkSections(doc *document.Document, docType rules.DocType) (issues []Issue) {
	rule, ok := d.table.SectionChecks[docType]
	if !ok {
		return issues
	}

	allText := strings.ToLower(doc.PlainText())

	for _, check := range rule.Checks {
		if strings.Contains(allText, check.Keyword) {
			continue
		}

		issues = append(issues, Issue{
			FlagKind:       rule.Kind,
			ParagraphIndex: 0,
			Excerpt:        "Document structure",
			Description:    fmt.Sprintf("Missing required section: %s", check.Keyword),
			Pattern:        check.Keyword,
			Severity:       check.Severity,
			Suggestion:     check.Description,
			ADGMReference:  rule.Reference,
		})
	}

	return issues
}

func measure(issues []Issue) (metrics Metrics) {
	metrics = Metrics{
		TotalFlags: len(issues),
	}

	for _, issue := range issues {
		switch issue.Severity {
		case rules.SeverityHigh:
			metrics.CriticalIssues++
		case rules.SeverityMedium:
			metrics.Warnings++
		case rules.SeverityLow:
		}
	}

	return metrics
}

// excerpt truncates flagged text to the excerpt limit, on a rune boundary.
func excerpt(text string) (out string) {
	out = text

	if len(out) <= excerptLimit {
		return out
	}

	runes := []rune(out)
	if len(runes) > excerptLimit {
		runes = runes[:excerptLimit]
	}
	out = string(runes) + "..."

	return out
}
