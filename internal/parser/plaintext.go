package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fjglira/tapparser/internal/domain"
	"github.com/fjglira/tapparser/internal/tap"
)

// PlaintextParser finds TAP sections in free-form text, such as CI logs,
// using configurable begin/end regex patterns. The begin pattern's first
// capture group is the tag, the optional second one holds attributes.
type PlaintextParser struct {
	tap               *tap.Parser
	blockStartPattern *regexp.Regexp
	blockEndPattern   *regexp.Regexp
}

// NewPlaintextParser creates a new PlaintextParser with the given regex patterns.
func NewPlaintextParser(tp *tap.Parser, blockStart, blockEnd string) (*PlaintextParser, error) {
	startRe, err := regexp.Compile(blockStart)
	if err != nil {
		return nil, fmt.Errorf("invalid block_start pattern: %w", err)
	}
	endRe, err := regexp.Compile(blockEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid block_end pattern: %w", err)
	}
	return &PlaintextParser{
		tap:               tp,
		blockStartPattern: startRe,
		blockEndPattern:   endRe,
	}, nil
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *PlaintextParser) SupportedExtensions() []string {
	return []string{".txt", ".out"}
}

// Parse extracts every delimited section whose tag is one of tags. A section
// without an end marker runs to the end of the file.
func (p *PlaintextParser) Parse(filePath string, content []byte, tags []string) (*domain.ParsedDocument, error) {
	lines := strings.SplitAfter(string(content), "\n")
	wanted := tagSet(tags)

	parsed := &domain.ParsedDocument{
		FilePath: filePath,
		FileType: "plaintext",
	}

	for i := 0; i < len(lines); i++ {
		m := p.blockStartPattern.FindStringSubmatch(strings.TrimRight(lines[i], "\r\n"))
		if m == nil || len(m) < 2 || !wanted[m[1]] {
			continue
		}

		attrs := make(map[string]string)
		if len(m) > 2 && m[2] != "" {
			attrs = parseAttrs(splitQuoted(m[2], ' ', '\t'))
		}

		i++
		startLine := i + 1
		var body strings.Builder
		for i < len(lines) && !p.blockEndPattern.MatchString(strings.TrimRight(lines[i], "\r\n")) {
			body.WriteString(lines[i])
			i++
		}

		stream, err := parseStream(p.tap, filePath, startLine, []byte(body.String()), attrs)
		if err != nil {
			return nil, err
		}
		parsed.Streams = append(parsed.Streams, stream)
	}

	return parsed, nil
}
