package parser

import (
	"strings"

	"github.com/fjglira/tapparser/internal/domain"
	"github.com/fjglira/tapparser/internal/tap"
)

// parseStream parses an embedded TAP block. A "name" attribute replaces the
// default file:line description of the stream.
func parseStream(tp *tap.Parser, filePath string, line int, content []byte, attrs map[string]string) (domain.TAPStream, error) {
	description := streamDescription(filePath, line)
	if name := attrs["name"]; name != "" {
		description = name
	}
	doc, err := tp.ParseBytes(description, content)
	if err != nil {
		return domain.TAPStream{}, domain.NewErrorWithSuggestion("parse", filePath, line,
			"failed to parse embedded TAP block",
			"fix the TAP text in the block or disable parser.strict_diagnostics",
			err)
	}
	return domain.TAPStream{
		LineNumber: line,
		Attributes: attrs,
		Document:   doc,
	}, nil
}

// parseInfoString parses a fenced code block info string like:
//
//	"tap name=\"unit run\" runner=prove"
//
// Returns map with _tag for the language tag and other key-value pairs.
func parseInfoString(info string) map[string]string {
	result := make(map[string]string)
	parts := splitQuoted(strings.TrimSpace(info), ' ', '\t')
	if len(parts) == 0 {
		return result
	}

	result["_tag"] = parts[0]
	for k, v := range parseAttrs(parts[1:]) {
		result[k] = v
	}
	return result
}

// parseAsciidocAttrs parses comma-separated key="value" or key=value attributes.
func parseAsciidocAttrs(s string) map[string]string {
	return parseAttrs(splitQuoted(s, ','))
}

func parseAttrs(parts []string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if idx := strings.Index(part, "="); idx > 0 {
			key := strings.TrimSpace(part[:idx])
			val := strings.Trim(strings.TrimSpace(part[idx+1:]), "\"'")
			attrs[key] = val
		}
	}
	return attrs
}

// splitQuoted splits s on any of seps, respecting quoted values.
func splitQuoted(s string, seps ...byte) []string {
	var parts []string
	var current strings.Builder
	inQuote := false
	quoteChar := byte(0)

	isSep := func(c byte) bool {
		for _, sep := range seps {
			if c == sep {
				return true
			}
		}
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote:
			if c == quoteChar {
				inQuote = false
			}
			current.WriteByte(c)
		case c == '"' || c == '\'':
			inQuote = true
			quoteChar = c
			current.WriteByte(c)
		case isSep(c):
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
