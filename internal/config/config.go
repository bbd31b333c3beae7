package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fjglira/tapparser/internal/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	Input             InputConfig             `yaml:"input"`
	Parser            ParserConfig            `yaml:"parser"`
	PlaintextPatterns PlaintextPatternsConfig `yaml:"plaintext_patterns"`
	Output            OutputConfig            `yaml:"output"`
	Templates         TemplateConfig          `yaml:"templates"`
	Logging           LoggingConfig           `yaml:"logging"`
	DryRun            bool                    `yaml:"dry_run"`
}

type InputConfig struct {
	Directories []string `yaml:"directories"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Recursive   *bool    `yaml:"recursive"` // pointer to distinguish unset from false
}

type ParserConfig struct {
	MaxDepth          int      `yaml:"max_depth"`
	StrictDiagnostics bool     `yaml:"strict_diagnostics"`
	EmbeddedTags      []string `yaml:"embedded_tags"`
}

type PlaintextPatternsConfig struct {
	BlockStart string `yaml:"block_start"`
	BlockEnd   string `yaml:"block_end"`
}

type OutputConfig struct {
	Directory           string `yaml:"directory"`
	Format              string `yaml:"format"`
	FilePrefix          string `yaml:"file_prefix"`
	FileSuffix          string `yaml:"file_suffix"`
	Pretty              bool   `yaml:"pretty"`
	CleanBeforeGenerate bool   `yaml:"clean_before_generate"`
}

type TemplateConfig struct {
	Directory string `yaml:"directory"`
	Default   string `yaml:"default"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
	}

	return cfg, nil
}
