package rules

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// override is the YAML shape for rule table customization. Every field is
// optional; anything present replaces or extends the built-in default.
type override struct {
	RedFlags      map[FlagKind]RedFlag    `yaml:"red_flags"`
	FlagKindOrder []FlagKind              `yaml:"flag_kind_order"`
	Checklists    map[string]Checklist    `yaml:"process_checklists"`
	ProcessOrder  []string                `yaml:"process_order"`
	SectionChecks map[DocType]SectionRule `yaml:"section_checks"`
	Signature     []string                `yaml:"signature_keywords"`
}

// Load builds the rule table, applying overrides from a YAML file when a
// path is given. The returned table is validated; a broken override file
// fails the whole run before any document is touched.
func Load(path string) (table *Table, err error) {
	table = Default()

	if path != "" {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to read rules file: %s", path)
			return table, err
		}

		var ovr override
		err = yaml.Unmarshal(data, &ovr)
		if err != nil {
			err = errors.Wrapf(err, "failed to parse rules file: %s", path)
			return table, err
		}

		applyOverride(table, ovr)
	}

	err = table.Validate()
	if err != nil {
		err = errors.Wrap(err, "rule table validation failed")
		return table, err
	}

	return table, err
}

func applyOverride(table *Table, ovr override) {
	for kind, flag := range ovr.RedFlags {
		if _, known := table.RedFlags[kind]; !known {
			table.FlagKindOrder = append(table.FlagKindOrder, kind)
		}
		table.RedFlags[kind] = flag
	}
	if len(ovr.FlagKindOrder) > 0 {
		table.FlagKindOrder = ovr.FlagKindOrder
	}

	for process, checklist := range ovr.Checklists {
		if _, known := table.Checklists[process]; !known {
			table.ProcessOrder = append(table.ProcessOrder, process)
		}
		table.Checklists[process] = checklist
	}
	if len(ovr.ProcessOrder) > 0 {
		table.ProcessOrder = ovr.ProcessOrder
	}

	for docType, rule := range ovr.SectionChecks {
		table.SectionChecks[docType] = rule
	}

	if len(ovr.Signature) > 0 {
		table.SignatureKeywords = ovr.Signature
	}
}
