package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/fjglira/tapparser/internal/domain"
)

// Formats lists the supported output formats.
var Formats = []string{"json", "yaml", "summary"}

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	// Input validation
	if len(cfg.Input.Directories) == 0 {
		errs = append(errs, "input.directories must not be empty")
	}
	if len(cfg.Input.Include) == 0 {
		errs = append(errs, "input.include must not be empty")
	}

	// Parser validation
	if cfg.Parser.MaxDepth < 0 {
		errs = append(errs, fmt.Sprintf("parser.max_depth must be >= 0 (got %d)", cfg.Parser.MaxDepth))
	}
	for _, tag := range cfg.Parser.EmbeddedTags {
		if strings.TrimSpace(tag) == "" || strings.ContainsAny(tag, " \t") {
			errs = append(errs, fmt.Sprintf("parser.embedded_tags contains an invalid tag %q", tag))
		}
	}

	// Output validation
	if cfg.Output.Directory == "" {
		errs = append(errs, "output.directory must not be empty")
	}
	// Custom templates are only known once the render engine loads them.
	if !slices.Contains(Formats, cfg.Output.Format) && cfg.Templates.Directory == "" {
		errs = append(errs, fmt.Sprintf("output.format must be one of: %s (got %q)", strings.Join(Formats, ", "), cfg.Output.Format))
	}
	if cfg.Output.FileSuffix == "" {
		errs = append(errs, "output.file_suffix must not be empty")
	}

	// Validate plaintext patterns are valid regex (if set)
	if cfg.PlaintextPatterns.BlockStart != "" {
		if _, err := regexp.Compile(cfg.PlaintextPatterns.BlockStart); err != nil {
			errs = append(errs, fmt.Sprintf("plaintext_patterns.block_start is not a valid regex: %v", err))
		}
	}
	if cfg.PlaintextPatterns.BlockEnd != "" {
		if _, err := regexp.Compile(cfg.PlaintextPatterns.BlockEnd); err != nil {
			errs = append(errs, fmt.Sprintf("plaintext_patterns.block_end is not a valid regex: %v", err))
		}
	}

	// Validate logging
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}
	if cfg.Logging.Format != "" && cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		errs = append(errs, fmt.Sprintf("logging.format must be text or json (got %q)", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}
