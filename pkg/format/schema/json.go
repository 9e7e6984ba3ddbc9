package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/justjanne/palettelib/pkg/colour"
)

// DecodeJSON parses a JSON palette document.
func DecodeJSON(data []byte) (*colour.Palette, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc *document
	if err := dec.Decode(&doc); err != nil {
		return nil, colour.MalformedErr(JSONName, jsonOffset(err, dec), err, "failed to parse JSON")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, colour.Malformed(JSONName, int(dec.InputOffset()), "unexpected data after document")
	}
	return doc.toPalette(JSONName)
}

// jsonOffset returns the byte offset of a decoding error, if known.
func jsonOffset(err error, dec *json.Decoder) int {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return int(syntaxErr.Offset)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return int(typeErr.Offset)
	}
	return int(dec.InputOffset())
}

// EncodeJSON writes a palette as an indented JSON document.
func EncodeJSON(p *colour.Palette) ([]byte, error) {
	doc, err := fromPalette(JSONName, p)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, colour.UnsupportedErr(JSONName, err, "failed to encode JSON")
	}
	return append(out, '\n'), nil
}
