package enrich

import (
	"context"

	"github.com/nikogura/adgm-review/pkg/detector"
	"github.com/nikogura/adgm-review/pkg/rules"
)

// Enricher is the optional external service that augments review output
// with supplementary guidance text. Its output is advisory only and never
// alters a score or status; every caller must tolerate errors and empty
// results by proceeding without guidance.
type Enricher interface {
	// Guidance returns advisory text for one flag kind on one document
	// type, or empty when none is available.
	Guidance(ctx context.Context, docType rules.DocType, kind rules.FlagKind) (guidance string, err error)

	// EnrichedAnalysis returns an advisory summary of a whole document's
	// findings, or empty when none is available.
	EnrichedAnalysis(ctx context.Context, docText string, docType rules.DocType, issues []detector.Issue) (summary string, err error)
}

// Noop is the enricher used when enrichment is disabled or unconfigured.
type Noop struct{}

// NewNoop creates a no-op enricher.
func NewNoop() (noop *Noop) {
	noop = &Noop{}
	return noop
}

// Guidance always returns empty guidance.
func (n *Noop) Guidance(_ context.Context, _ rules.DocType, _ rules.FlagKind) (guidance string, err error) {
	return guidance, err
}

// EnrichedAnalysis always returns an empty summary.
func (n *Noop) EnrichedAnalysis(_ context.Context, _ string, _ rules.DocType, _ []detector.Issue) (summary string, err error) {
	return summary, err
}
