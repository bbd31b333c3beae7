package parser

import (
	"github.com/fjglira/tapparser/internal/domain"
	"github.com/fjglira/tapparser/internal/tap"
)

// TAPFileParser parses files that contain a single TAP stream.
type TAPFileParser struct {
	tap *tap.Parser
}

// NewTAPFileParser creates a TAPFileParser backed by tp.
func NewTAPFileParser(tp *tap.Parser) *TAPFileParser {
	return &TAPFileParser{tap: tp}
}

// SupportedExtensions returns the file extensions this parser handles.
// It also serves as the registry fallback for raw runner output.
func (p *TAPFileParser) SupportedExtensions() []string {
	return []string{".tap", ".t", ".log"}
}

// Parse parses the whole file as one TAP stream. Tags are ignored.
func (p *TAPFileParser) Parse(filePath string, content []byte, _ []string) (*domain.ParsedDocument, error) {
	doc, err := p.tap.ParseBytes(filePath, content)
	if err != nil {
		return nil, err
	}
	return &domain.ParsedDocument{
		FilePath: filePath,
		FileType: "tap",
		Streams: []domain.TAPStream{{
			LineNumber: 1,
			Document:   doc,
		}},
	}, nil
}
