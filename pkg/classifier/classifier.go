package classifier

import (
	"regexp"
	"strings"

	"github.com/nikogura/adgm-review/pkg/document"
	"github.com/nikogura/adgm-review/pkg/rules"
)

// Classifier assigns a document type label to one input document.
type Classifier struct {
	table        *rules.Table
	wordPatterns map[string]*regexp.Regexp
}

// RankedType is one document type with its match score. Rankings are
// returned in rule-table order so ties resolve deterministically.
type RankedType struct {
	DocType rules.DocType
	Score   int
	Keyword string
}

// New creates a classifier. Whole-word keyword patterns are compiled once
// here rather than per document.
func New(table *rules.Table) (clf *Classifier) {
	clf = &Classifier{
		table:        table,
		wordPatterns: make(map[string]*regexp.Regexp),
	}

	for _, docType := range table.DocTypeOrder {
		for _, keyword := range table.TypeKeywords[docType] {
			if _, ok := clf.wordPatterns[keyword]; ok {
				continue
			}
			clf.wordPatterns[keyword] = regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
		}
	}

	return clf
}

// Classify determines the document type from filename first, then content.
// It never fails: unreadable or unmatchable content yields DocTypeUnknown.
func (c *Classifier) Classify(doc *document.Document, filename string) (docType rules.DocType) {
	// Phase 1: filename keywords, longest match wins.
	ranked := c.RankFilename(filename)
	docType = bestRanked(ranked)
	if docType != rules.DocTypeUnknown {
		return docType
	}

	if doc == nil {
		docType = rules.DocTypeUnknown
		return docType
	}

	// Phase 2: whole-word keyword counts over all paragraph and cell text.
	text := strings.ToLower(doc.PlainText())
	if strings.TrimSpace(text) == "" {
		docType = rules.DocTypeUnknown
		return docType
	}

	ranked = c.RankContent(text)
	docType = bestRanked(ranked)
	if docType != rules.DocTypeUnknown {
		return docType
	}

	docType = fallbackPhrases(text)

	return docType
}

// RankFilename scores every document type against the lower-cased
// filename. Longer keywords (spaces stripped) score higher, so specific
// names like "articles of association" beat bare "articles".
func (c *Classifier) RankFilename(filename string) (ranked []RankedType) {
	filenameLower := strings.ToLower(filename)

	for _, docType := range c.table.DocTypeOrder {
		best := RankedType{DocType: docType}
		for _, keyword := range c.table.TypeKeywords[docType] {
			if !strings.Contains(filenameLower, keyword) {
				continue
			}
			score := len(strings.ReplaceAll(keyword, " ", ""))
			if score > best.Score {
				best.Score = score
				best.Keyword = keyword
			}
		}
		ranked = append(ranked, best)
	}

	return ranked
}

// RankContent counts whole-word occurrences of each type's keywords in
// the lower-cased document text, summed per type.
func (c *Classifier) RankContent(text string) (ranked []RankedType) {
	for _, docType := range c.table.DocTypeOrder {
		entry := RankedType{DocType: docType}
		for _, keyword := range c.table.TypeKeywords[docType] {
			matches := c.wordPatterns[keyword].FindAllStringIndex(text, -1)
			if len(matches) > 0 && entry.Keyword == "" {
				entry.Keyword = keyword
			}
			entry.Score += len(matches)
		}
		ranked = append(ranked, entry)
	}

	return ranked
}

// bestRanked picks the highest non-zero score. Rankings arrive in rule
// table order and the comparison is strict, so the first enumerated type
// wins ties.
func bestRanked(ranked []RankedType) (docType rules.DocType) {
	docType = rules.DocTypeUnknown

	best := 0
	for _, entry := range ranked {
		if entry.Score > best {
			best = entry.Score
			docType = entry.DocType
		}
	}

	return docType
}

// fallbackPhrases is the last-resort cascade of phrase checks, applied in
// a fixed priority order when keyword scoring comes up empty.
func fallbackPhrases(text string) (docType rules.DocType) {
	switch {
	case strings.Contains(text, "articles of association") || strings.Contains(text, "company constitution"):
		docType = rules.DocTypeArticles
	case strings.Contains(text, "memorandum of association") || strings.Contains(text, "company objects"):
		docType = rules.DocTypeMemorandum
	case strings.Contains(text, "board of directors") && strings.Contains(text, "resolution"):
		docType = rules.DocTypeBoardResolution
	case strings.Contains(text, "shareholders") && strings.Contains(text, "resolution"):
		docType = rules.DocTypeShareholderRes
	case strings.Contains(text, "ultimate beneficial owner") || strings.Contains(text, "ubo"):
		docType = rules.DocTypeUBODeclaration
	case strings.Contains(text, "employment") && (strings.Contains(text, "contract") || strings.Contains(text, "agreement")):
		docType = rules.DocTypeEmploymentContract
	default:
		docType = rules.DocTypeUnknown
	}

	return docType
}
