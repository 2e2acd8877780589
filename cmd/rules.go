package cmd

import (
	"fmt"
	"os"

	"github.com/nikogura/adgm-review/pkg/rules"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective rule table",
	Long: `Prints the effective rule table as YAML: document type keywords, red flag
patterns, process checklists, and structural section checks.

Useful as a starting point for a rules override file.

Examples:
  # Inspect the built-in rules
  adgm-review rules

  # Inspect rules with an override applied
  adgm-review rules --rules ./custom-rules.yaml`,
	RunE: runRules,
}

//nolint:gochecknoglobals // Cobra boilerplate
var rulesOverrideFile string

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().StringVar(&rulesOverrideFile, "rules", "", "Rule table override file (YAML)")
}

func runRules(cmd *cobra.Command, args []string) (err error) {
	var table *rules.Table
	table, err = rules.Load(rulesOverrideFile)
	if err != nil {
		err = fmt.Errorf("failed to load rule table: %w", err)
		return err
	}

	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)

	err = encoder.Encode(table)
	if err != nil {
		err = fmt.Errorf("failed to encode rule table: %w", err)
		return err
	}

	err = encoder.Close()
	if err != nil {
		err = fmt.Errorf("failed to flush rule table output: %w", err)
		return err
	}

	return err
}
