package tap

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// DiagnosticsDecoder turns the text of an embedded diagnostics block into a
// structured value.
type DiagnosticsDecoder interface {
	Decode(blob []byte) (any, error)
}

// YAMLDecoder decodes diagnostics blocks with yaml.v3. Mappings with
// non-string keys and non-finite floats are converted so the result stays
// JSON-encodable.
type YAMLDecoder struct{}

// Decode implements DiagnosticsDecoder.
func (YAMLDecoder) Decode(blob []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(blob, &v); err != nil {
		return nil, err
	}
	return normalize(v), nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	case float64:
		// JSON has no infinities or NaN; keep their YAML spelling.
		switch {
		case math.IsInf(t, 1):
			return ".inf"
		case math.IsInf(t, -1):
			return "-.inf"
		case math.IsNaN(t):
			return ".nan"
		}
		return t
	default:
		return v
	}
}

// diagnosticsBlock is the raw content of one "---" / "..." block.
type diagnosticsBlock struct {
	text       string
	terminated bool
	startLine  int
}

// diagnosticsMarkers returns the opening and closing markers for a block at
// the given indentation.
func diagnosticsMarkers(indent string) (begin, end string) {
	inner := indent + "  "
	return inner + "---", inner + "..."
}

func matchesMarker(line, marker string) bool {
	return strings.TrimRight(line, " \t\r\n") == marker
}

// readDiagnostics collects a diagnostics block if the next line opens one.
// It consumes the opening marker, the content and the closing marker.
func readDiagnostics(c *Cursor, indent string) (*diagnosticsBlock, bool) {
	begin, end := diagnosticsMarkers(indent)
	next, ok := c.Peek()
	if !ok || !matchesMarker(next, begin) {
		return nil, false
	}
	c.advance()

	inner := indent + "  "
	block := &diagnosticsBlock{startLine: c.Line()}
	var sb strings.Builder
	for l := range c.TakeWhile(func(l string) bool { return !matchesMarker(l, end) }) {
		sb.WriteString(stripIndent(l, inner))
	}
	block.text = sb.String()

	if _, ok := c.Peek(); ok {
		c.advance()
		block.terminated = true
	}
	return block, true
}

// stripIndent removes prefix from l. Shorter lines, such as blank lines
// inside the block, lose only their leading whitespace.
func stripIndent(l, prefix string) string {
	if rest, ok := strings.CutPrefix(l, prefix); ok {
		return rest
	}
	return strings.TrimLeft(l, " \t")
}
