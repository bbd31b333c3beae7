package parser

import (
	"regexp"
	"strings"

	"github.com/fjglira/tapparser/internal/domain"
	"github.com/fjglira/tapparser/internal/tap"
)

// AsciiDocParser extracts TAP output from [source,tap] listing blocks.
type AsciiDocParser struct {
	tap *tap.Parser
}

// NewAsciiDocParser creates a new AsciiDocParser.
func NewAsciiDocParser(tp *tap.Parser) *AsciiDocParser {
	return &AsciiDocParser{tap: tp}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *AsciiDocParser) SupportedExtensions() []string {
	return []string{".adoc", ".asciidoc"}
}

var (
	// Matches [source,tag,attr1="val1",attr2="val2"]
	asciidocSourceRe = regexp.MustCompile(`^\[source,([^,\]]+)(?:,(.+))?\]\s*$`)
	// Matches ---- delimiter
	asciidocDelimRe = regexp.MustCompile(`^----+\s*$`)
	// Matches == Heading, === Subheading, etc.
	asciidocHeadingRe = regexp.MustCompile(`^(={2,6})\s+(.+)$`)
)

// Parse scans an AsciiDoc document line by line and parses every listing
// block whose source language is one of tags.
func (p *AsciiDocParser) Parse(filePath string, content []byte, tags []string) (*domain.ParsedDocument, error) {
	lines := strings.SplitAfter(string(content), "\n")
	wanted := tagSet(tags)

	parsed := &domain.ParsedDocument{
		FilePath: filePath,
		FileType: "asciidoc",
	}

	var currentHeading string
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r\n")

		if m := asciidocHeadingRe.FindStringSubmatch(line); m != nil {
			currentHeading = strings.TrimSpace(m[2])
			parsed.Headings = append(parsed.Headings, domain.Heading{
				Level: len(m[1]) - 1, // == is level 1, === is level 2
				Text:  currentHeading,
				Line:  i + 1,
			})
			continue
		}

		m := asciidocSourceRe.FindStringSubmatch(line)
		if m == nil || !wanted[strings.TrimSpace(m[1])] {
			continue
		}

		// The listing delimiter must follow the [source] line directly.
		if i+1 >= len(lines) || !asciidocDelimRe.MatchString(strings.TrimRight(lines[i+1], "\r\n")) {
			continue
		}
		i += 2

		startLine := i + 1
		var body strings.Builder
		for i < len(lines) && !asciidocDelimRe.MatchString(strings.TrimRight(lines[i], "\r\n")) {
			body.WriteString(lines[i])
			i++
		}

		attrs := make(map[string]string)
		if m[2] != "" {
			attrs = parseAsciidocAttrs(m[2])
		}

		stream, err := parseStream(p.tap, filePath, startLine, []byte(body.String()), attrs)
		if err != nil {
			return nil, err
		}
		stream.Context = currentHeading
		parsed.Streams = append(parsed.Streams, stream)
	}

	return parsed, nil
}
