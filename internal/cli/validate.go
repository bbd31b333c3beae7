package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the tapparser.yaml configuration file",
	Long:  `Loads the configuration file and checks for errors, missing required fields, and invalid values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %q is valid.\n", cfgFile)
		log.Debugf("Loaded config: %+v", cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
