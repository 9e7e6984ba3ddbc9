package schema

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/justjanne/palettelib/pkg/colour"
)

// DecodeYAML parses a YAML palette document. The input must hold exactly one
// YAML document.
func DecodeYAML(data []byte) (*colour.Palette, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc *document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, colour.Malformed(YAMLName, -1, "document is empty")
		}
		return nil, colour.MalformedErr(YAMLName, -1, err, "failed to parse YAML")
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, colour.Malformed(YAMLName, -1, "input holds more than one YAML document")
	}
	return doc.toPalette(YAMLName)
}

// EncodeYAML writes a palette as a YAML document.
func EncodeYAML(p *colour.Palette) ([]byte, error) {
	doc, err := fromPalette(YAMLName, p)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, colour.UnsupportedErr(YAMLName, err, "failed to encode YAML")
	}
	if err := enc.Close(); err != nil {
		return nil, colour.UnsupportedErr(YAMLName, err, "failed to encode YAML")
	}
	return buf.Bytes(), nil
}
