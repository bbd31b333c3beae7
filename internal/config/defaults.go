package config

import "github.com/fjglira/tapparser/internal/tap"

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	return &Config{
		Input: InputConfig{
			Directories: []string{"."},
			Include:     []string{"*.tap", "*.t"},
			Exclude:     []string{"vendor/**", "node_modules/**", ".git/**"},
			Recursive:   &recursive,
		},
		Parser: ParserConfig{
			MaxDepth:          tap.DefaultMaxDepth,
			StrictDiagnostics: false,
			EmbeddedTags:      []string{"tap"},
		},
		PlaintextPatterns: PlaintextPatternsConfig{
			BlockStart: `^\s*@begin\((\S+)(?:\s+(.*))?\)\s*$`,
			BlockEnd:   `^\s*@end\s*$`,
		},
		Output: OutputConfig{
			Directory:           "tap-reports",
			Format:              "json",
			FilePrefix:          "",
			FileSuffix:          ".json",
			Pretty:              true,
			CleanBeforeGenerate: false,
		},
		Templates: TemplateConfig{
			Default: "summary",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		DryRun: false,
	}
}
