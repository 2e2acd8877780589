package rules

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Severity ranks how badly a finding hurts compliance.
type Severity string

const (
	// SeverityHigh marks critical compliance defects.
	SeverityHigh Severity = "High"
	// SeverityMedium marks defects that need attention but are not blocking.
	SeverityMedium Severity = "Medium"
	// SeverityLow marks informational findings.
	SeverityLow Severity = "Low"
)

// DocType is the closed set of ADGM document categories.
type DocType string

const (
	DocTypeMemorandum         DocType = "memorandum_of_association"
	DocTypeArticles           DocType = "articles_of_association"
	DocTypeBoardResolution    DocType = "board_resolution"
	DocTypeShareholderRes     DocType = "shareholder_resolution"
	DocTypeIncorporationForm  DocType = "incorporation_form"
	DocTypeUBODeclaration     DocType = "ubo_declaration"
	DocTypeRegisterMembers    DocType = "register_members"
	DocTypeEmploymentContract DocType = "employment_contract"
	DocTypeDataProtection     DocType = "data_protection_policy"
	DocTypeAnnualAccounts     DocType = "annual_accounts"
	DocTypeChecklist          DocType = "company_checklist"
	DocTypeUnknown            DocType = "unknown"
)

// FlagKind names a category of compliance defect.
type FlagKind string

const (
	FlagJurisdiction     FlagKind = "jurisdiction"
	FlagGoverningLaw     FlagKind = "governing_law"
	FlagRegistrationAuth FlagKind = "registration_authority"
	FlagSignatureReqs    FlagKind = "signature_requirements"
	FlagMissingSignature FlagKind = "missing_signature"
	FlagMissingSection   FlagKind = "missing_section"
	FlagMissingElement   FlagKind = "missing_element"
	FlagMissingClause    FlagKind = "missing_clause"
)

// RedFlag defines one pattern-based compliance check.
type RedFlag struct {
	Patterns    []string `yaml:"patterns"`
	Correct     string   `yaml:"correct"`
	Severity    Severity `yaml:"severity"`
	Description string   `yaml:"description"`
}

// SectionCheck is one required keyword for a document type.
type SectionCheck struct {
	Keyword     string   `yaml:"keyword"`
	Description string   `yaml:"description"`
	Severity    Severity `yaml:"severity"`
}

// SectionRule groups the required-section checks for one document type.
type SectionRule struct {
	Kind      FlagKind       `yaml:"kind"`
	Reference string         `yaml:"reference"`
	Checks    []SectionCheck `yaml:"checks"`
}

// Checklist lists the documents a business process needs.
type Checklist struct {
	Required []string `yaml:"required_documents"`
	Optional []string `yaml:"optional_documents,omitempty"`
}

// Table is the static rule configuration for a review run. It is loaded
// once and treated as read-only for the run's lifetime, so it needs no
// locking when shared across workers.
type Table struct {
	// TypeKeywords maps each document type to its classification keywords,
	// most specific first.
	TypeKeywords map[DocType][]string `yaml:"type_keywords"`

	// DocTypeOrder fixes the iteration order for classification tie-breaks.
	DocTypeOrder []DocType `yaml:"doc_type_order"`

	// RedFlags holds the pattern-based compliance checks.
	RedFlags map[FlagKind]RedFlag `yaml:"red_flags"`

	// FlagKindOrder fixes the scan order of the red-flag table.
	FlagKindOrder []FlagKind `yaml:"flag_kind_order"`

	// Checklists maps process names to their required-document lists.
	Checklists map[string]Checklist `yaml:"process_checklists"`

	// ProcessOrder fixes the iteration order for process detection ties.
	ProcessOrder []string `yaml:"process_order"`

	// SectionChecks holds the per-document-type structural requirements.
	SectionChecks map[DocType]SectionRule `yaml:"section_checks"`

	// SignatureKeywords is the keyword set that satisfies the
	// signature-block check.
	SignatureKeywords []string `yaml:"signature_keywords"`

	// References maps flag kinds to the ADGM regulation they cite.
	References map[FlagKind]string `yaml:"references"`

	// Labels maps document types to human-readable names used in
	// checklist matching and reports.
	Labels map[DocType]string `yaml:"labels"`
}

// Label returns the human-readable name for a document type.
func (t *Table) Label(docType DocType) (label string) {
	if l, ok := t.Labels[docType]; ok {
		label = l
		return label
	}

	titleCaser := cases.Title(language.English)
	label = titleCaser.String(strings.ReplaceAll(string(docType), "_", " "))

	return label
}

// Reference returns the ADGM regulation reference for a flag kind.
func (t *Table) Reference(kind FlagKind) (ref string) {
	if r, ok := t.References[kind]; ok {
		ref = r
		return ref
	}

	ref = "ADGM General Regulations"

	return ref
}

// Validate checks the table for internal consistency. A broken table is
// fatal at startup, before any document is processed.
func (t *Table) Validate() (err error) {
	if len(t.TypeKeywords) == 0 {
		err = errors.New("rule table has no document type keywords")
		return err
	}

	for _, docType := range t.DocTypeOrder {
		if _, ok := t.TypeKeywords[docType]; !ok {
			err = errors.Errorf("doc type order references unknown type: %s", docType)
			return err
		}
	}

	if len(t.DocTypeOrder) != len(t.TypeKeywords) {
		err = errors.Errorf("doc type order covers %d types, keyword table has %d",
			len(t.DocTypeOrder), len(t.TypeKeywords))
		return err
	}

	for _, kind := range t.FlagKindOrder {
		if _, ok := t.RedFlags[kind]; !ok {
			err = errors.Errorf("flag kind order references unknown flag: %s", kind)
			return err
		}
	}

	if len(t.FlagKindOrder) != len(t.RedFlags) {
		err = errors.Errorf("flag kind order covers %d flags, red flag table has %d",
			len(t.FlagKindOrder), len(t.RedFlags))
		return err
	}

	for kind, flag := range t.RedFlags {
		if len(flag.Patterns) == 0 {
			err = errors.Errorf("red flag %s has no patterns", kind)
			return err
		}
		err = validSeverity(flag.Severity)
		if err != nil {
			err = errors.Wrapf(err, "red flag %s", kind)
			return err
		}
	}

	for _, process := range t.ProcessOrder {
		if _, ok := t.Checklists[process]; !ok {
			err = errors.Errorf("process order references unknown process: %s", process)
			return err
		}
	}

	if len(t.ProcessOrder) != len(t.Checklists) {
		err = errors.Errorf("process order covers %d processes, checklist table has %d",
			len(t.ProcessOrder), len(t.Checklists))
		return err
	}

	for docType, rule := range t.SectionChecks {
		if rule.Kind == "" {
			err = errors.Errorf("section checks for %s have no flag kind", docType)
			return err
		}
		for _, check := range rule.Checks {
			if check.Keyword == "" {
				err = errors.Errorf("section check for %s has an empty keyword", docType)
				return err
			}
			err = validSeverity(check.Severity)
			if err != nil {
				err = errors.Wrapf(err, "section check %q for %s", check.Keyword, docType)
				return err
			}
		}
	}

	if len(t.SignatureKeywords) == 0 {
		err = errors.New("rule table has no signature keywords")
		return err
	}

	return err
}

func validSeverity(severity Severity) (err error) {
	switch severity {
	case SeverityHigh, SeverityMedium, SeverityLow:
	default:
		err = errors.Errorf("invalid severity: %q", severity)
	}

	return err
}
