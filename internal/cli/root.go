package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjglira/tapparser/internal/config"
)

var (
	cfgFile string
	verbose bool
	dryRun  bool
	log     = logrus.New()
)

// rootCmd is the base command for tapparser.
var rootCmd = &cobra.Command{
	Use:   "tapparser",
	Short: "Parse Test Anything Protocol output into structured reports",
	Long: `tapparser reads TAP output (raw .tap files, or TAP pasted into Markdown,
AsciiDoc and plain-text logs) and turns it into JSON, YAML or summary reports.

Batch runs are driven by a YAML configuration file (tapparser.yaml).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.InfoLevel)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "tapparser.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "parse and render but don't write files")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// configureLogger applies the logging section of cfg. --verbose wins over
// logging.level. The returned func closes the log file, if one was opened.
func configureLogger(l *logrus.Logger, cfg config.LoggingConfig) (func(), error) {
	closer := func() {}

	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return closer, fmt.Errorf("invalid logging.level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	if verbose {
		level = logrus.DebugLevel
	}
	l.SetLevel(level)

	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return closer, fmt.Errorf("failed to open log file: %w", err)
		}
		l.SetOutput(f)
		closer = func() { _ = f.Close() }
	}

	return closer, nil
}

// loadConfig loads and validates cfgFile. When optional is set, a missing
// file yields the defaults.
func loadConfig(optional bool) (*config.Config, error) {
	if optional {
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			log.Debugf("No config file at %s, using defaults", cfgFile)
			return config.DefaultConfig(), nil
		}
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if dryRun {
		cfg.DryRun = true
	}
	return cfg, nil
}
