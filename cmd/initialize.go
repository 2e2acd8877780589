package cmd

import (
	"fmt"

	"github.com/nikogura/adgm-review/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long: `Creates a default configuration file at $HOME/.adgm-review/config.json.

Edit the file to point at a rules override, set an output directory, or
enable Claude-backed guidance enrichment.`,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	err = config.InitConfig(getConfigFile())
	if err != nil {
		err = fmt.Errorf("failed to create config: %w", err)
		return err
	}

	fmt.Println("Configuration created. Edit it to enable enrichment or customize rules.")

	return err
}
