package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justjanne/palettelib/pkg/format"
)

func newFormatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported palette formats",
		Long: `List the palette formats this build can read and write, with the file
extensions they are chosen by and the parts of a palette each can store.

Formats listed in PALETTELIB_DISABLED_FORMATS (comma separated) are hidden.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatsTable(a.registry.All()).Render())
			return nil
		},
	}
}

// formatsTable renders one row per codec.
func formatsTable(codecs []format.Codec) *Table {
	table := NewTable([]string{"FORMAT", "EXTENSIONS", "SPACES", "NAME", "SWATCH NAMES", "SPOT", "GROUPS", "DESCRIPTION"})
	table.SetColumnMaxWidth(7, 40)
	for _, c := range codecs {
		caps := c.Capabilities()
		spaces := make([]string, len(caps.Spaces))
		for i, s := range caps.Spaces {
			spaces[i] = s.String()
		}
		table.AddRow([]string{
			c.Name(),
			strings.Join(c.Extensions(), " "),
			strings.Join(spaces, ","),
			yesNo(caps.PaletteName),
			yesNo(caps.Names),
			yesNo(caps.Spot),
			yesNo(caps.Groups),
			c.Description(),
		})
	}
	return table
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
