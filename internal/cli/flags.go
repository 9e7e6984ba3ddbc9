package cli

import (
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/justjanne/palettelib/pkg/colour"
	"github.com/justjanne/palettelib/pkg/format"
)

// formatValue is a pflag.Value naming a palette format. Set resolves the
// argument through the registry, so names, extensions and file names are
// all accepted and stored as the canonical codec name.
type formatValue struct {
	registry *format.Registry
	name     string
}

var _ pflag.Value = (*formatValue)(nil)

func newFormatValue(registry *format.Registry) *formatValue {
	return &formatValue{registry: registry}
}

func (f *formatValue) String() string { return f.name }

func (f *formatValue) Set(s string) error {
	c, err := f.registry.Lookup(s)
	if err != nil {
		return err
	}
	f.name = c.Name()
	return nil
}

func (f *formatValue) Type() string { return "format" }

// spaceListValue is a pflag.Value holding a comma separated list of colour
// spaces. Repeated flags accumulate.
type spaceListValue struct {
	spaces []colour.Space
}

var _ pflag.Value = (*spaceListValue)(nil)

func (s *spaceListValue) String() string {
	names := make([]string, len(s.spaces))
	for i, space := range s.spaces {
		names[i] = space.String()
	}
	return strings.Join(names, ",")
}

func (s *spaceListValue) Set(v string) error {
	for _, name := range strings.Split(v, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		space, err := colour.ParseSpace(name)
		if err != nil {
			return err
		}
		if !slices.Contains(s.spaces, space) {
			s.spaces = append(s.spaces, space)
		}
	}
	return nil
}

func (s *spaceListValue) Type() string { return "spaces" }
