package scorer

import (
	"github.com/nikogura/adgm-review/pkg/detector"
	"github.com/nikogura/adgm-review/pkg/rules"
)

// Status is the compliance band a score falls into.
type Status string

const (
	// StatusCompliant covers scores of 90 and above.
	StatusCompliant Status = "Compliant"
	// StatusMinorIssues covers scores from 70 to 89.
	StatusMinorIssues Status = "Minor Issues"
	// StatusMajorIssues covers scores from 50 to 69.
	StatusMajorIssues Status = "Major Issues"
	// StatusNonCompliant covers everything below 50.
	StatusNonCompliant Status = "Non-Compliant"
)

// Deduction weights per issue severity. Low severity is informational and
// never deducts.
const (
	highWeight   = 20
	mediumWeight = 10
)

// Score reduces an issue list to a compliance score and status band.
// Pure integer arithmetic: score = max(0, 100 - 20*high - 10*medium).
func Score(issues []detector.Issue) (score int, status Status) {
	score = 100

	for _, issue := range issues {
		switch issue.Severity {
		case rules.SeverityHigh:
			score -= highWeight
		case rules.SeverityMedium:
			score -= mediumWeight
		case rules.SeverityLow:
		}
	}

	if score < 0 {
		score = 0
	}

	status = StatusFor(score)

	return score, status
}

// StatusFor maps a score in [0,100] to its compliance band. The same
// banding applies to per-document scores and the batch average.
func StatusFor(score int) (status Status) {
	switch {
	case score >= 90:
		status = StatusCompliant
	case score >= 70:
		status = StatusMinorIssues
	case score >= 50:
		status = StatusMajorIssues
	default:
		status = StatusNonCompliant
	}

	return status
}
