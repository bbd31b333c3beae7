package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/fjglira/tapparser/internal/config"
	"github.com/fjglira/tapparser/internal/domain"
	"github.com/fjglira/tapparser/internal/parser"
	"github.com/fjglira/tapparser/internal/render"
	"github.com/fjglira/tapparser/internal/scanner"
)

// Generator is the top-level orchestrator.
type Generator interface {
	Generate(cfg *config.Config) error
}

// DefaultGenerator implements Generator by wiring all components together.
type DefaultGenerator struct {
	scanner  scanner.Scanner
	registry parser.ParserRegistry
	renderer render.Renderer
	fs       afero.Fs
	log      logrus.FieldLogger
}

// NewGenerator creates a new DefaultGenerator with all dependencies.
func NewGenerator(
	s scanner.Scanner,
	r parser.ParserRegistry,
	e render.Renderer,
	log logrus.FieldLogger,
) *DefaultGenerator {
	return &DefaultGenerator{
		scanner:  s,
		registry: r,
		renderer: e,
		fs:       afero.NewOsFs(),
		log:      log,
	}
}

// WithFs makes the generator read inputs from and write reports to fs.
func (g *DefaultGenerator) WithFs(fs afero.Fs) *DefaultGenerator {
	g.fs = fs
	return g
}

// Generate runs the full pipeline: scan → parse → render → write.
// Every input file that holds at least one TAP stream yields one report.
func (g *DefaultGenerator) Generate(cfg *config.Config) error {
	if cfg.Output.CleanBeforeGenerate && !cfg.DryRun {
		g.log.Debugf("Cleaning output directory: %s", cfg.Output.Directory)
		if err := cleanOutputDir(g.fs, cfg.Output.Directory, cfg.Output.FileSuffix); err != nil {
			return domain.NewErrorWithSuggestion("write", cfg.Output.Directory, 0,
				"failed to clean output directory",
				"check file permissions or set output.clean_before_generate to false in tapparser.yaml",
				err)
		}
	}

	var allFiles []string
	for _, dir := range cfg.Input.Directories {
		g.log.Debugf("Scanning directory: %s", dir)
		files, err := g.scanner.Scan(dir, cfg.Input.Include, cfg.Input.Exclude)
		if err != nil {
			g.log.Warnf("Failed to scan directory %s: %v", dir, err)
			continue
		}
		allFiles = append(allFiles, files...)
	}

	if len(allFiles) == 0 {
		g.log.Warn("No TAP files found")
		return nil
	}

	g.log.Infof("Found %d input file(s)", len(allFiles))

	if !cfg.DryRun {
		if err := g.fs.MkdirAll(cfg.Output.Directory, 0755); err != nil {
			return domain.NewErrorWithSuggestion("write", cfg.Output.Directory, 0,
				"failed to create output directory",
				"check that the parent directory exists and has write permissions",
				err)
		}
	}

	used := make(map[string]bool)
	var written int
	for _, filePath := range allFiles {
		g.log.Debugf("Processing: %s", filePath)

		content, err := afero.ReadFile(g.fs, filePath)
		if err != nil {
			return domain.NewErrorWithSuggestion("parse", filePath, 0,
				"failed to read file",
				"check that the file exists and has read permissions",
				err)
		}

		ext := filepath.Ext(filePath)
		p, err := g.registry.ParserFor(ext)
		if err != nil {
			g.log.Warnf("No parser for %s, skipping %s", ext, filePath)
			continue
		}

		doc, err := p.Parse(filePath, content, cfg.Parser.EmbeddedTags)
		if err != nil {
			return err
		}

		if len(doc.Streams) == 0 {
			g.log.Debugf("No TAP streams found in %s", filePath)
			continue
		}

		for _, s := range doc.Streams {
			stats := render.Summarize(s.Document)
			g.log.WithFields(logrus.Fields{
				"file":    filePath,
				"line":    s.LineNumber,
				"passed":  stats.Passed,
				"failed":  stats.Failed,
				"skipped": stats.Skipped,
				"todo":    stats.Todo,
			}).Debug("Parsed TAP stream")
		}

		rendered, err := g.renderer.Render(doc, cfg.Output.Format)
		if err != nil {
			return err
		}

		outputPath := filepath.Join(cfg.Output.Directory, buildOutputFilename(filePath, used, cfg.Output))

		if cfg.DryRun {
			g.log.Infof("[DRY-RUN] Would write: %s", outputPath)
			g.log.Debugf("[DRY-RUN] Content:\n%s", rendered)
			continue
		}

		g.log.Infof("Writing: %s", outputPath)
		if err := afero.WriteFile(g.fs, outputPath, rendered, 0644); err != nil {
			return domain.NewErrorWithSuggestion("write", outputPath, 0,
				"failed to write output file",
				"check disk space and write permissions for the output directory",
				err)
		}
		written++
	}

	g.log.Infof("Generation complete, %d report(s) written", written)
	return nil
}

// buildOutputFilename constructs the output filename from the input's base
// name. When two inputs share a base name, e.g. report.md and report.adoc,
// the later one keeps its extension as a suffix.
func buildOutputFilename(filePath string, used map[string]bool, output config.OutputConfig) string {
	base := filepath.Base(filePath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if used[name] && ext != "" {
		name += "_" + strings.TrimPrefix(ext, ".")
	}
	used[name] = true
	return fmt.Sprintf("%s%s%s", output.FilePrefix, name, output.FileSuffix)
}

// cleanOutputDir removes previously generated reports from the output directory.
func cleanOutputDir(fs afero.Fs, dir, suffix string) error {
	info, err := fs.Stat(dir)
	if os.IsNotExist(err) {
		return nil // Nothing to clean
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if suffix == "" {
		return fmt.Errorf("refusing to clean %s without output.file_suffix", dir)
	}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), suffix) {
			path := filepath.Join(dir, entry.Name())
			if err := fs.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}
