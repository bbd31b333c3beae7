package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/tapparser/internal/config"
	"github.com/fjglira/tapparser/internal/parser"
	"github.com/fjglira/tapparser/internal/render"
	"github.com/fjglira/tapparser/internal/tap"
)

// newTAPParser builds the stream parser from the parser section.
func newTAPParser(cfg *config.Config, l logrus.FieldLogger) *tap.Parser {
	return tap.NewParser(tap.Options{
		MaxDepth:          cfg.Parser.MaxDepth,
		StrictDiagnostics: cfg.Parser.StrictDiagnostics,
		Log:               l,
	})
}

// newRegistry registers every file-format parser. Unknown extensions are
// read as raw TAP.
func newRegistry(cfg *config.Config, tp *tap.Parser) (*parser.DefaultRegistry, error) {
	registry := parser.NewRegistry()

	tapFile := parser.NewTAPFileParser(tp)
	registry.Register(tapFile)
	registry.Register(parser.NewMarkdownParser(tp))
	registry.Register(parser.NewAsciiDocParser(tp))

	plaintext, err := parser.NewPlaintextParser(tp, cfg.PlaintextPatterns.BlockStart, cfg.PlaintextPatterns.BlockEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to create plaintext parser: %w", err)
	}
	registry.Register(plaintext)
	registry.SetFallback(tapFile)

	return registry, nil
}

// newRenderer builds the render engine from the output and templates sections.
func newRenderer(cfg *config.Config) (*render.DefaultEngine, error) {
	engine, err := render.NewEngine(cfg.Templates.Directory, cfg.Templates.Default, cfg.Output.Pretty)
	if err != nil {
		return nil, fmt.Errorf("failed to create render engine: %w", err)
	}
	return engine, nil
}
