package parser

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/fjglira/tapparser/internal/domain"
	"github.com/fjglira/tapparser/internal/tap"
)

// MarkdownParser extracts TAP output pasted into fenced code blocks of
// Markdown documents, e.g. ```tap name="unit run"```.
type MarkdownParser struct {
	tap *tap.Parser
}

// NewMarkdownParser creates a new MarkdownParser.
func NewMarkdownParser(tp *tap.Parser) *MarkdownParser {
	return &MarkdownParser{tap: tp}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *MarkdownParser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Parse walks the Markdown AST and parses every fenced block whose language
// is one of tags.
func (p *MarkdownParser) Parse(filePath string, content []byte, tags []string) (*domain.ParsedDocument, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(content))

	parsed := &domain.ParsedDocument{
		FilePath: filePath,
		FileType: "markdown",
	}
	wanted := tagSet(tags)

	var currentHeading string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			headingText := extractText(node, content)
			lineNum := 0
			if node.Lines().Len() > 0 {
				lineNum = lineNumber(content, node.Lines().At(0).Start)
			} else if first, ok := node.FirstChild().(*ast.Text); ok {
				lineNum = lineNumber(content, first.Segment.Start)
			}
			parsed.Headings = append(parsed.Headings, domain.Heading{
				Level: node.Level,
				Text:  headingText,
				Line:  lineNum,
			})
			currentHeading = headingText

		case *ast.FencedCodeBlock:
			var info string
			if node.Info != nil {
				info = string(node.Info.Segment.Value(content))
			}
			parts := parseInfoString(info)
			if !wanted[parts["_tag"]] {
				return ast.WalkContinue, nil
			}

			var buf bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(content))
			}

			startLine := 0
			if lines.Len() > 0 {
				startLine = lineNumber(content, lines.At(0).Start)
			}

			attrs := make(map[string]string)
			for k, v := range parts {
				if k != "_tag" {
					attrs[k] = v
				}
			}

			stream, err := parseStream(p.tap, filePath, startLine, buf.Bytes(), attrs)
			if err != nil {
				return ast.WalkStop, err
			}
			stream.Context = currentHeading
			parsed.Streams = append(parsed.Streams, stream)
		}

		return ast.WalkContinue, nil
	})

	if err != nil {
		return nil, err
	}

	return parsed, nil
}

// extractText gets the text content of a heading node.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
	}
	return buf.String()
}

// lineNumber calculates the 1-based line number for a byte offset.
func lineNumber(content []byte, offset int) int {
	return bytes.Count(content[:offset], []byte("\n")) + 1
}
