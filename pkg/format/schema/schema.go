// Package schema reads and writes the plain palette interchange document in
// JSON and YAML.
//
// A document has an optional name, ungrouped swatches and groups. Each swatch
// holds exactly one of the cmyk, rgb, lab or gray channel arrays, in the same
// units as the palette model. Unknown fields are rejected.
package schema

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/justjanne/palettelib/pkg/colour"
)

// Format identifiers.
const (
	JSONName = "json"
	YAMLName = "yaml"
)

type document struct {
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Swatches []swatch `json:"swatches,omitempty" yaml:"swatches,omitempty"`
	Groups   []group  `json:"groups,omitempty" yaml:"groups,omitempty"`
}

type group struct {
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Swatches []swatch `json:"swatches,omitempty" yaml:"swatches,omitempty"`
}

type swatch struct {
	Name string   `json:"name,omitempty" yaml:"name,omitempty"`
	Spot bool     `json:"spot,omitempty" yaml:"spot,omitempty"`
	CMYK channels `json:"cmyk,omitempty" yaml:"cmyk,omitempty"`
	RGB  channels `json:"rgb,omitempty" yaml:"rgb,omitempty"`
	LAB  channels `json:"lab,omitempty" yaml:"lab,omitempty"`
	Gray channels `json:"gray,omitempty" yaml:"gray,omitempty"`
}

// channels is a colour component array, written as a YAML flow sequence.
type channels []float64

// MarshalYAML implements yaml.Marshaler.
func (c channels) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range c {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: strconv.FormatFloat(v, 'g', -1, 64),
		})
	}
	return node, nil
}

// toPalette converts a decoded document into a palette.
func (d *document) toPalette(codec string) (*colour.Palette, error) {
	if d == nil {
		return nil, colour.Malformed(codec, -1, "document is empty")
	}
	p := &colour.Palette{Name: d.Name}
	for i, s := range d.Swatches {
		sw, err := s.toSwatch()
		if err != nil {
			return nil, colour.MalformedErr(codec, -1, err, "swatch %d", i)
		}
		p.Swatches = append(p.Swatches, sw)
	}
	for gi, g := range d.Groups {
		out := colour.Group{Name: g.Name}
		for i, s := range g.Swatches {
			sw, err := s.toSwatch()
			if err != nil {
				return nil, colour.MalformedErr(codec, -1, err, "group %d swatch %d", gi, i)
			}
			out.Swatches = append(out.Swatches, sw)
		}
		p.Groups = append(p.Groups, out)
	}
	return p, nil
}

func (s swatch) toSwatch() (colour.Swatch, error) {
	var space colour.Space
	var values channels
	populated := 0
	for _, f := range []struct {
		space  colour.Space
		values channels
	}{
		{colour.SpaceCMYK, s.CMYK},
		{colour.SpaceRGB, s.RGB},
		{colour.SpaceLAB, s.LAB},
		{colour.SpaceGray, s.Gray},
	} {
		if f.values == nil {
			continue
		}
		populated++
		space, values = f.space, f.values
	}
	switch {
	case populated == 0:
		return colour.Swatch{}, fmt.Errorf("swatch %q has no colour", s.Name)
	case populated > 1:
		return colour.Swatch{}, fmt.Errorf("swatch %q has %d colour representations, want exactly one", s.Name, populated)
	}

	v, err := colour.FromComponents(space, values)
	if err != nil {
		return colour.Swatch{}, err
	}
	if err := v.Validate(); err != nil {
		return colour.Swatch{}, err
	}
	return colour.Swatch{Name: s.Name, Spot: s.Spot, Colour: v}, nil
}

// fromPalette converts a palette into a document.
func fromPalette(codec string, p *colour.Palette) (*document, error) {
	if err := colour.CheckEncodable(codec, p); err != nil {
		return nil, err
	}
	if !utf8.ValidString(p.Name) {
		return nil, colour.Unsupported(codec, "palette name is not valid UTF-8")
	}

	d := &document{Name: p.Name}
	for _, s := range p.Swatches {
		sw, err := fromSwatch(codec, s)
		if err != nil {
			return nil, err
		}
		d.Swatches = append(d.Swatches, sw)
	}
	for _, g := range p.Groups {
		if !utf8.ValidString(g.Name) {
			return nil, colour.Unsupported(codec, "group name is not valid UTF-8")
		}
		out := group{Name: g.Name}
		for _, s := range g.Swatches {
			sw, err := fromSwatch(codec, s)
			if err != nil {
				return nil, err
			}
			out.Swatches = append(out.Swatches, sw)
		}
		d.Groups = append(d.Groups, out)
	}
	return d, nil
}

func fromSwatch(codec string, s colour.Swatch) (swatch, error) {
	if !utf8.ValidString(s.Name) {
		return swatch{}, colour.Unsupported(codec, "swatch name is not valid UTF-8")
	}
	out := swatch{Name: s.Name, Spot: s.Spot}
	values := channels(s.Colour.Components())
	switch s.Colour.Space {
	case colour.SpaceCMYK:
		out.CMYK = values
	case colour.SpaceRGB:
		out.RGB = values
	case colour.SpaceLAB:
		out.LAB = values
	case colour.SpaceGray:
		out.Gray = values
	}
	return out, nil
}
