package checklist

import (
	"math"
	"strings"

	"github.com/nikogura/adgm-review/pkg/rules"
)

// UnknownProcess is the sentinel returned when no configured process
// matches the uploaded document set.
const UnknownProcess = "Unknown Process"

// Report is the per-run completeness computation for a detected process.
// It is derived wholesale from the document type set, never mutated
// incrementally.
type Report struct {
	Process           string   `json:"process"`
	Status            string   `json:"status"`
	UploadedDocuments int      `json:"uploaded_documents"`
	RequiredCount     int      `json:"required_documents"`
	FoundDocuments    []string `json:"found_documents"`
	MissingDocuments  []string `json:"missing_documents"`
	OptionalDocuments []string `json:"optional_documents,omitempty"`
	CompletenessPct   float64  `json:"completeness_percentage"`
}

// Engine verifies a document set against the process checklists.
type Engine struct {
	table *rules.Table
}

// New creates a checklist engine backed by the given rule table.
func New(table *rules.Table) (engine *Engine) {
	engine = &Engine{
		table: table,
	}

	return engine
}

// DetectProcess picks the configured process whose required-document list
// is best satisfied by the uploaded types. Ties resolve to the first
// process in rule-table order; an all-zero outcome is UnknownProcess.
func (e *Engine) DetectProcess(docTypes []rules.DocType) (process string) {
	process = UnknownProcess

	best := 0
	for _, name := range e.table.ProcessOrder {
		required := e.table.Checklists[name].Required

		score := 0
		for _, docType := range docTypes {
			label := e.table.Label(docType)
			for _, requiredDoc := range required {
				if DocumentsMatch(label, requiredDoc) {
					score++
					break
				}
			}
		}

		if score > best {
			best = score
			process = name
		}
	}

	return process
}

// BuildReport computes completeness of the uploaded set against the
// process's required-document list. A process absent from the rule table
// yields a zero-completeness report rather than an error.
func (e *Engine) BuildReport(docTypes []rules.DocType, process string) (report Report) {
	report = Report{
		Process:           process,
		UploadedDocuments: len(docTypes),
		FoundDocuments:    []string{},
		MissingDocuments:  []string{},
	}

	cl, ok := e.table.Checklists[process]
	if !ok {
		report.Status = "Unknown process type"
		return report
	}

	labels := make([]string, 0, len(docTypes))
	for _, docType := range docTypes {
		labels = append(labels, e.table.Label(docType))
	}

	for _, requiredDoc := range cl.Required {
		found := false
		for _, label := range labels {
			if DocumentsMatch(label, requiredDoc) {
				found = true
				break
			}
		}

		if found {
			report.FoundDocuments = append(report.FoundDocuments, requiredDoc)
		} else {
			report.MissingDocuments = append(report.MissingDocuments, requiredDoc)
		}
	}

	report.RequiredCount = len(cl.Required)
	report.OptionalDocuments = cl.Optional

	if report.RequiredCount == 0 {
		report.CompletenessPct = 100
	} else {
		pct := 100 * float64(len(report.FoundDocuments)) / float64(report.RequiredCount)
		report.CompletenessPct = math.Round(pct*10) / 10
	}

	if len(report.MissingDocuments) == 0 {
		report.Status = "Complete"
	} else {
		report.Status = "Incomplete"
	}

	return report
}

// DocumentsMatch reports whether two document names refer to the same
// required item: an exact match, or both sharing one of the fixed anchor
// substrings. The anchors are deliberately loose; keeping them as-is
// preserves compatibility with existing checklists.
func DocumentsMatch(doc1, doc2 string) (match bool) {
	a := strings.ToLower(doc1)
	b := strings.ToLower(doc2)

	if a == b {
		match = true
		return match
	}

	anchors := []string{"articles", "memorandum", "resolution", "register"}
	for _, anchor := range anchors {
		if strings.Contains(a, anchor) && strings.Contains(b, anchor) {
			match = true
			return match
		}
	}

	if strings.Contains(a, "ubo") && (strings.Contains(b, "ubo") || strings.Contains(b, "beneficial owner")) {
		match = true
		return match
	}
	if strings.Contains(b, "ubo") && strings.Contains(a, "beneficial owner") {
		match = true
		return match
	}

	if strings.Contains(a, "incorporation") && (strings.Contains(b, "incorporation") || strings.Contains(b, "application")) {
		match = true
		return match
	}
	if strings.Contains(b, "incorporation") && strings.Contains(a, "application") {
		match = true
		return match
	}

	return match
}
