package render

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/spf13/afero"

	"github.com/fjglira/tapparser/internal/domain"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

// Renderer turns parse results into report bytes.
type Renderer interface {
	Render(doc *domain.ParsedDocument, format string) ([]byte, error)
	RenderDocument(doc *domain.Document, format string) ([]byte, error)
	ListTemplates() []string
}

// streamData is the per-stream struct passed to summary templates.
type streamData struct {
	Title         string
	Context       string
	Line          int
	Stats         Stats
	BailedOut     bool
	BailOutReason string
	Failures      []Failure
}

// templateData is the struct passed to summary templates.
type templateData struct {
	FilePath string
	FileType string
	Streams  []streamData
}

// fileReport is the JSON/YAML shape for files holding embedded streams.
type fileReport struct {
	File    string         `json:"file" yaml:"file"`
	Type    string         `json:"type" yaml:"type"`
	Streams []streamReport `json:"streams" yaml:"streams"`
}

type streamReport struct {
	Line       int               `json:"line" yaml:"line"`
	Context    string            `json:"context,omitempty" yaml:"context,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Result     *domain.Document  `json:"result" yaml:"result"`
}

// DefaultEngine implements Renderer with json, yaml and template formats.
// Any loaded template name is a valid format; "summary" is built in.
type DefaultEngine struct {
	templates   map[string]*template.Template
	defaultName string
	templateDir string
	pretty      bool
}

// NewEngine creates a render engine reading custom templates from the OS
// filesystem.
func NewEngine(templateDir, defaultTemplate string, pretty bool) (*DefaultEngine, error) {
	return NewEngineWithFs(afero.NewOsFs(), templateDir, defaultTemplate, pretty)
}

// NewEngineWithFs creates a render engine. Built-in templates are loaded
// first, then .tmpl files from templateDir on fsys (if set) override or
// extend them.
func NewEngineWithFs(fsys afero.Fs, templateDir, defaultTemplate string, pretty bool) (*DefaultEngine, error) {
	engine := &DefaultEngine{
		templates:   make(map[string]*template.Template),
		defaultName: defaultTemplate,
		templateDir: templateDir,
		pretty:      pretty,
	}

	if err := engine.loadTemplates(builtinTemplates, "templates"); err != nil {
		return nil, err
	}
	if templateDir != "" {
		if err := engine.loadTemplates(afero.NewIOFS(afero.NewBasePathFs(fsys, templateDir)), "."); err != nil {
			return nil, err
		}
	}

	return engine, nil
}

// loadTemplates reads all .tmpl files from dir in fsys.
func (e *DefaultEngine) loadTemplates(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return domain.NewError("render", e.templateDir, 0, "failed to read template directory", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		name := path.Join(dir, entry.Name())
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return domain.NewError("render", name, 0, "failed to read template file", err)
		}

		key := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(key).Funcs(CustomFuncMap()).Parse(string(content))
		if err != nil {
			return domain.NewError("render", name, 0, "failed to parse template", err)
		}

		e.templates[key] = tmpl
	}

	return nil
}

// Render renders every stream of a parsed file. A plain TAP file renders as
// its single Document; files with embedded streams render as a file report.
func (e *DefaultEngine) Render(doc *domain.ParsedDocument, format string) ([]byte, error) {
	switch format {
	case "json", "yaml":
		var v any
		if doc.FileType == "tap" && len(doc.Streams) == 1 {
			v = doc.Streams[0].Document
		} else {
			v = newFileReport(doc)
		}
		return e.encode(v, format, doc.FilePath)
	default:
		return e.execute(format, newTemplateData(doc), doc.FilePath)
	}
}

// RenderDocument renders a single parse result.
func (e *DefaultEngine) RenderDocument(doc *domain.Document, format string) ([]byte, error) {
	var source string
	if doc.Description != nil {
		source = *doc.Description
	}
	switch format {
	case "json", "yaml":
		return e.encode(doc, format, source)
	default:
		parsed := &domain.ParsedDocument{
			FilePath: source,
			FileType: "tap",
			Streams:  []domain.TAPStream{{LineNumber: 1, Document: doc}},
		}
		return e.execute(format, newTemplateData(parsed), source)
	}
}

func (e *DefaultEngine) encode(v any, format, source string) ([]byte, error) {
	var (
		out []byte
		err error
	)
	if format == "json" {
		out, err = EncodeJSON(v, e.pretty)
		if err == nil {
			out = append(out, '\n')
		}
	} else {
		out, err = EncodeYAML(v)
	}
	if err != nil {
		return nil, domain.NewError("render", source, 0, fmt.Sprintf("failed to encode %s", format), err)
	}
	return out, nil
}

func (e *DefaultEngine) execute(name string, data templateData, source string) ([]byte, error) {
	if name == "" {
		name = e.defaultName
	}
	tmpl, ok := e.templates[name]
	if !ok {
		return nil, domain.NewError("render", "", 0,
			fmt.Sprintf("template %q not found (available: %s)", name, strings.Join(e.ListTemplates(), ", ")), nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, domain.NewError("render", source, 0, "failed to execute template", err)
	}
	return buf.Bytes(), nil
}

// ListTemplates returns the sorted names of all loaded templates.
func (e *DefaultEngine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newFileReport(doc *domain.ParsedDocument) fileReport {
	r := fileReport{File: doc.FilePath, Type: doc.FileType, Streams: []streamReport{}}
	for _, s := range doc.Streams {
		r.Streams = append(r.Streams, streamReport{
			Line:       s.LineNumber,
			Context:    s.Context,
			Attributes: s.Attributes,
			Result:     s.Document,
		})
	}
	return r
}

func newTemplateData(doc *domain.ParsedDocument) templateData {
	data := templateData{FilePath: doc.FilePath, FileType: doc.FileType}
	for _, s := range doc.Streams {
		sd := streamData{
			Title:     doc.FilePath,
			Context:   s.Context,
			Line:      s.LineNumber,
			Stats:     Summarize(s.Document),
			BailedOut: s.Document.BailedOut(),
			Failures:  Failures(s.Document),
		}
		if s.Document.Description != nil {
			sd.Title = *s.Document.Description
		}
		if r := s.Document.Directives[domain.DirectiveBailOut]; r != nil {
			sd.BailOutReason = *r
		}
		data.Streams = append(data.Streams, sd)
	}
	return data
}
