package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fjglira/tapparser/internal/config"
	"github.com/fjglira/tapparser/internal/domain"
)

var (
	parseFormat   string
	parseMaxDepth int
	parseStrict   bool
	parseTags     []string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse a single TAP source and print the result",
	Long: `Parses one file, or standard input when the argument is "-" or missing,
and prints the result as JSON, YAML or a summary. The file extension picks
the parser; anything unrecognised is read as raw TAP.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(true)
		if err != nil {
			return err
		}
		applyParseFlags(cmd, cfg)

		closeLog, err := configureLogger(log, cfg.Logging)
		defer closeLog()
		if err != nil {
			return err
		}

		source := "-"
		if len(args) == 1 {
			source = args[0]
		}

		var content []byte
		if source == "-" {
			content, err = io.ReadAll(cmd.InOrStdin())
		} else {
			content, err = os.ReadFile(source)
		}
		if err != nil {
			return domain.NewErrorWithSuggestion("parse", source, 0,
				"failed to read input",
				"check that the file exists and has read permissions",
				err)
		}

		return runParse(cfg, source, content, parseFormat, cmd.OutOrStdout())
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "json", "output format: json, yaml, summary or a template name")
	parseCmd.Flags().IntVar(&parseMaxDepth, "max-depth", 0, "maximum subtest nesting depth (0 = unlimited)")
	parseCmd.Flags().BoolVar(&parseStrict, "strict", false, "fail on unterminated or invalid diagnostics blocks")
	parseCmd.Flags().StringSliceVar(&parseTags, "tags", nil, "code block languages treated as TAP in documents")
	rootCmd.AddCommand(parseCmd)
}

// applyParseFlags lets explicitly set flags override the config file.
func applyParseFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("max-depth") {
		cfg.Parser.MaxDepth = parseMaxDepth
	}
	if cmd.Flags().Changed("strict") {
		cfg.Parser.StrictDiagnostics = parseStrict
	}
	if cmd.Flags().Changed("tags") {
		cfg.Parser.EmbeddedTags = parseTags
	}
}

// runParse parses content from source and writes the rendered result to out.
func runParse(cfg *config.Config, source string, content []byte, format string, out io.Writer) error {
	registry, err := newRegistry(cfg, newTAPParser(cfg, log))
	if err != nil {
		return err
	}
	engine, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	p, err := registry.ParserFor(filepath.Ext(source))
	if err != nil {
		return err
	}

	name := source
	if source == "-" {
		name = "stdin"
	}
	doc, err := p.Parse(name, content, cfg.Parser.EmbeddedTags)
	if err != nil {
		return err
	}
	log.WithField("streams", len(doc.Streams)).Debugf("Parsed %s", name)

	rendered, err := engine.Render(doc, format)
	if err != nil {
		return err
	}
	if _, err := out.Write(rendered); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
