package cli

import (
	"github.com/spf13/cobra"

	"github.com/fjglira/tapparser/internal/config"
	"github.com/fjglira/tapparser/internal/generator"
	"github.com/fjglira/tapparser/internal/scanner"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate reports for every TAP source found by the config",
	Long:  `Scans the configured directories, parses TAP files and TAP blocks embedded in documents, and writes one report per input file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}

		closeLog, err := configureLogger(log, cfg.Logging)
		defer closeLog()
		if err != nil {
			return err
		}

		log.Info("Configuration loaded successfully")
		log.WithField("directories", cfg.Input.Directories).Info("Scanning directories")
		log.WithField("path", cfg.Output.Directory).Info("Output directory")

		return runGenerate(cfg)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

// runGenerate wires all components and runs the generator.
func runGenerate(cfg *config.Config) error {
	recursive := true
	if cfg.Input.Recursive != nil {
		recursive = *cfg.Input.Recursive
	}
	s := scanner.NewScanner(recursive)

	registry, err := newRegistry(cfg, newTAPParser(cfg, log))
	if err != nil {
		return err
	}

	engine, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	gen := generator.NewGenerator(s, registry, engine, log)
	return gen.Generate(cfg)
}
