package render

import (
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/fjglira/tapparser/internal/domain"
)

var json = jsoniter.Config{
	EscapeHTML:             false, // Descriptions are plain text.
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true, // Diagnostics integers may exceed 2^53.
}.Froze()

// EncodeJSON encodes v as JSON, indented when pretty is set.
func EncodeJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// DecodeDocument reads a Document back from its JSON form.
func DecodeDocument(data []byte) (*domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Tests == nil {
		doc.Tests = []domain.TestResult{}
	}
	return &doc, nil
}

// EncodeYAML encodes v as a YAML document.
func EncodeYAML(v any) ([]byte, error) {
	return yaml.Marshal(v)
}
