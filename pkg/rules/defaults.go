package rules

// Default returns the built-in ADGM rule table. The data tracks the ADGM
// Registration Authority templates and checklists published at
// https://www.adgm.com/registration-authority/registration-and-incorporation.
//
//nolint:funlen // Static configuration data
func Default() (table *Table) {
	table = &Table{
		TypeKeywords: map[DocType][]string{
			// Order matters within each list: more specific keywords first.
			DocTypeMemorandum: {
				"memorandum of association", "memorandum_of_association", "moa", "memorandum",
			},
			DocTypeArticles: {
				"articles of association", "articles_of_association", "aoa", "articles",
			},
			DocTypeBoardResolution: {
				"board resolution", "board_resolution", "resolution", "board", "directors resolution",
			},
			DocTypeShareholderRes: {
				"shareholder resolution", "shareholders resolution", "member resolution",
			},
			DocTypeIncorporationForm: {
				"incorporation", "application form", "registration form", "incorporation_form",
			},
			DocTypeUBODeclaration: {
				"ubo", "ubo_form", "ultimate beneficial owner", "beneficial owner", "declaration",
			},
			DocTypeRegisterMembers: {
				"register of members", "members register", "register of directors", "directors register",
			},
			DocTypeEmploymentContract: {
				"employment contract", "employment agreement", "contract of employment",
			},
			DocTypeDataProtection: {
				"data protection", "privacy policy", "data policy",
			},
			DocTypeAnnualAccounts: {
				"annual accounts", "financial statements", "accounts",
			},
			DocTypeChecklist: {
				"checklist", "setup checklist", "incorporation checklist",
			},
		},
		DocTypeOrder: []DocType{
			DocTypeMemorandum,
			DocTypeArticles,
			DocTypeBoardResolution,
			DocTypeShareholderRes,
			DocTypeIncorporationForm,
			DocTypeUBODeclaration,
			DocTypeRegisterMembers,
			DocTypeEmploymentContract,
			DocTypeDataProtection,
			DocTypeAnnualAccounts,
			DocTypeChecklist,
		},
		RedFlags: map[FlagKind]RedFlag{
			FlagJurisdiction: {
				Patterns:    []string{"uae federal court", "dubai court", "sharjah court", "federal court"},
				Correct:     "ADGM Courts",
				Severity:    SeverityHigh,
				Description: "Jurisdiction must be ADGM Courts, not UAE federal or other emirate courts",
			},
			FlagGoverningLaw: {
				Patterns:    []string{"uae law", "dubai law", "federal law"},
				Correct:     "ADGM law",
				Severity:    SeverityHigh,
				Description: "Governing law must reference ADGM law and regulations",
			},
			FlagRegistrationAuth: {
				Patterns:    []string{"department of economic development", "ded", "chamber of commerce"},
				Correct:     "ADGM Registration Authority",
				Severity:    SeverityHigh,
				Description: "Registration authority must be ADGM Registration Authority",
			},
			FlagSignatureReqs: {
				Patterns:    []string{"without signature", "unsigned", "no signature block"},
				Correct:     "Proper signature blocks required",
				Severity:    SeverityMedium,
				Description: "All documents must have proper signature blocks for authorized signatories",
			},
		},
		FlagKindOrder: []FlagKind{
			FlagJurisdiction,
			FlagGoverningLaw,
			FlagRegistrationAuth,
			FlagSignatureReqs,
		},
		Checklists: map[string]Checklist{
			"Company Incorporation": {
				Required: []string{
					"Memorandum of Association",
					"Articles of Association",
					"Incorporation Application Form",
					"UBO Declaration Form",
					"Register of Members and Directors",
				},
				Optional: []string{
					"Board Resolution for Incorporation",
					"Shareholder Resolution",
				},
			},
			"Private Company Limited": {
				Required: []string{
					"Memorandum of Association",
					"Articles of Association",
					"Application Form",
					"Register of Members",
					"Register of Directors",
					"UBO Declaration",
				},
			},
			"Employment Setup": {
				Required: []string{
					"Employment Contract",
					"Data Protection Policy",
				},
			},
			"Annual Compliance": {
				Required: []string{
					"Annual Accounts",
					"Annual Return",
				},
			},
		},
		ProcessOrder: []string{
			"Company Incorporation",
			"Private Company Limited",
			"Employment Setup",
			"Annual Compliance",
		},
		SectionChecks: map[DocType]SectionRule{
			DocTypeArticles: {
				Kind:      FlagMissingSection,
				Reference: "ADGM Companies Regulations - Articles of Association Requirements",
				Checks: []SectionCheck{
					{Keyword: "share capital", Description: "Share capital structure must be defined", Severity: SeverityHigh},
					{Keyword: "directors", Description: "Directors' powers and responsibilities must be specified", Severity: SeverityHigh},
					{Keyword: "meetings", Description: "Meeting procedures must be outlined", Severity: SeverityHigh},
					{Keyword: "dividends", Description: "Dividend distribution rules must be included", Severity: SeverityHigh},
				},
			},
			DocTypeMemorandum: {
				Kind:      FlagMissingElement,
				Reference: "ADGM Companies Regulations - Memorandum of Association Requirements",
				Checks: []SectionCheck{
					{Keyword: "company name", Description: "Company name must be clearly stated", Severity: SeverityHigh},
					{Keyword: "registered office", Description: "Registered office address must be specified", Severity: SeverityHigh},
					{Keyword: "objects", Description: "Company objects and powers must be defined", Severity: SeverityHigh},
					{Keyword: "liability", Description: "Member liability must be specified", Severity: SeverityHigh},
				},
			},
			DocTypeEmploymentContract: {
				Kind:      FlagMissingClause,
				Reference: "ADGM Employment Regulations 2019",
				Checks: []SectionCheck{
					{Keyword: "job description", Description: "Job description and duties must be specified", Severity: SeverityMedium},
					{Keyword: "salary", Description: "Salary and compensation must be defined", Severity: SeverityMedium},
					{Keyword: "working hours", Description: "Working hours and schedule must be outlined", Severity: SeverityMedium},
					{Keyword: "notice period", Description: "Notice periods for termination must be specified", Severity: SeverityMedium},
					{Keyword: "data protection", Description: "Data protection and confidentiality clauses required", Severity: SeverityMedium},
				},
			},
		},
		SignatureKeywords: []string{
			"signature", "signed by", "director signature", "authorized signatory",
		},
		References: map[FlagKind]string{
			FlagJurisdiction:     "ADGM Courts and Civil Procedures Rules",
			FlagGoverningLaw:     "ADGM Companies Regulations",
			FlagRegistrationAuth: "ADGM Registration Authority Regulations",
			FlagSignatureReqs:    "ADGM Companies Regulations - Execution of Documents",
			FlagMissingSignature: "ADGM Companies Regulations - Execution of Documents",
		},
		Labels: map[DocType]string{
			DocTypeArticles:           "Articles of Association",
			DocTypeMemorandum:         "Memorandum of Association",
			DocTypeBoardResolution:    "Board Resolution",
			DocTypeShareholderRes:     "Shareholder Resolution",
			DocTypeIncorporationForm:  "Incorporation Application Form",
			DocTypeUBODeclaration:     "UBO Declaration Form",
			DocTypeRegisterMembers:    "Register of Members and Directors",
			DocTypeEmploymentContract: "Employment Contract",
			DocTypeDataProtection:     "Data Protection Policy",
			DocTypeAnnualAccounts:     "Annual Accounts",
		},
	}

	return table
}
