package colour

import (
	"fmt"
	"slices"
)

// Swatch is a single named colour entry.
type Swatch struct {
	Name   string
	Spot   bool
	Colour Value
}

// Group is a named, ordered collection of swatches.
type Group struct {
	Name     string
	Swatches []Swatch
}

// Palette is the format-agnostic palette model. Swatches holds the
// ungrouped swatches; the order of swatches and groups is significant.
type Palette struct {
	Name     string
	Swatches []Swatch
	Groups   []Group
}

// NewPalette creates a new Palette with the given name and ungrouped swatches.
func NewPalette(name string, swatches ...Swatch) *Palette {
	return &Palette{
		Name:     name,
		Swatches: swatches,
	}
}

// Len returns the number of swatches in the palette, grouped or not.
func (p *Palette) Len() int {
	n := len(p.Swatches)
	for _, g := range p.Groups {
		n += len(g.Swatches)
	}
	return n
}

// All returns an iterator over every swatch in the palette, ungrouped
// swatches first, then each group in order. The group is nil for
// ungrouped swatches.
func (p *Palette) All() func(func(*Group, Swatch) bool) {
	return func(yield func(*Group, Swatch) bool) {
		for _, s := range p.Swatches {
			if !yield(nil, s) {
				return
			}
		}
		for i := range p.Groups {
			for _, s := range p.Groups[i].Swatches {
				if !yield(&p.Groups[i], s) {
					return
				}
			}
		}
	}
}

// Flatten returns every swatch in iteration order as one slice.
func (p *Palette) Flatten() []Swatch {
	out := make([]Swatch, 0, p.Len())
	for _, s := range p.All() {
		out = append(out, s)
	}
	return out
}

// Flattened returns a copy of the palette with all groups merged into the
// ungrouped swatches.
func (p *Palette) Flattened() *Palette {
	return &Palette{Name: p.Name, Swatches: p.Flatten()}
}

// Filter returns a copy of the palette keeping only swatches for which keep
// returns true. Groups left empty are kept so that group order survives.
func (p *Palette) Filter(keep func(Swatch) bool) *Palette {
	out := &Palette{Name: p.Name}
	for _, s := range p.Swatches {
		if keep(s) {
			out.Swatches = append(out.Swatches, s)
		}
	}
	for _, g := range p.Groups {
		ng := Group{Name: g.Name}
		for _, s := range g.Swatches {
			if keep(s) {
				ng.Swatches = append(ng.Swatches, s)
			}
		}
		out.Groups = append(out.Groups, ng)
	}
	return out
}

// Clone returns a deep copy of the palette.
func (p *Palette) Clone() *Palette {
	out := &Palette{
		Name:     p.Name,
		Swatches: slices.Clone(p.Swatches),
	}
	for _, g := range p.Groups {
		out.Groups = append(out.Groups, Group{Name: g.Name, Swatches: slices.Clone(g.Swatches)})
	}
	return out
}

// Merge combines palettes into a new palette called name. Each input becomes
// one group named after the input palette; its own groups are flattened into it.
func Merge(name string, palettes ...*Palette) *Palette {
	out := &Palette{Name: name}
	for _, p := range palettes {
		if p == nil {
			continue
		}
		out.Groups = append(out.Groups, Group{Name: p.Name, Swatches: p.Flatten()})
	}
	return out
}

// Validate checks every colour value in the palette.
func (p *Palette) Validate() error {
	for i, s := range p.Swatches {
		if err := s.Colour.Validate(); err != nil {
			return fmt.Errorf("swatch %d (%q): %w", i, s.Name, err)
		}
	}
	for gi, g := range p.Groups {
		for i, s := range g.Swatches {
			if err := s.Colour.Validate(); err != nil {
				return fmt.Errorf("group %d (%q) swatch %d (%q): %w", gi, g.Name, i, s.Name, err)
			}
		}
	}
	return nil
}

// Equal reports whether two palettes are structurally equal. Nil and empty
// swatch or group slices are considered equal.
func (p *Palette) Equal(other *Palette) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.Name != other.Name || !slices.Equal(p.Swatches, other.Swatches) {
		return false
	}
	return slices.EqualFunc(p.Groups, other.Groups, func(a, b Group) bool {
		return a.Name == b.Name && slices.Equal(a.Swatches, b.Swatches)
	})
}

// Spaces returns the distinct colour spaces used in the palette, in order of
// first appearance.
func (p *Palette) Spaces() []Space {
	var spaces []Space
	for _, s := range p.All() {
		if !slices.Contains(spaces, s.Colour.Space) {
			spaces = append(spaces, s.Colour.Space)
		}
	}
	return spaces
}
