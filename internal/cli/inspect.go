package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/justjanne/palettelib/pkg/colour"
)

// Preview modes for the inspect command.
const (
	previewAuto   = "auto"
	previewAlways = "always"
	previewNever  = "never"
)

func newInspectCmd(a *app) *cobra.Command {
	from := newFormatValue(a.registry)
	var preview string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the contents of a palette file",
		Long: `Show the name, groups and swatches of a palette file.

RGB swatches get a truecolour preview block when the output is a terminal.

Examples:
  # List the swatches of a Photoshop swatch file
  palettelib inspect swatches.aco

  # Force colour previews when piping into a pager
  palettelib inspect --preview always brand.ase | less -R`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			show, err := showPreview(preview, out)
			if err != nil {
				return err
			}

			p, err := a.converter().ReadFile(cmd.Context(), args[0], from.String())
			if err != nil {
				return err
			}
			fmt.Fprint(out, describePalette(p))
			fmt.Fprintln(out)
			fmt.Fprint(out, swatchTable(p, show).Render())
			return nil
		},
	}

	cmd.Flags().Var(from, "from", "input format (default: from the file extension)")
	cmd.Flags().StringVar(&preview, "preview", previewAuto, "show colour previews (auto, always, never)")
	return cmd
}

// showPreview resolves the preview mode against the output writer.
func showPreview(mode string, out io.Writer) (bool, error) {
	switch mode {
	case previewAlways:
		return true, nil
	case previewNever:
		return false, nil
	case previewAuto:
		f, ok := out.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid preview mode '%s' (valid: auto, always, never)", mode)
	}
}

// describePalette returns the summary lines printed above the swatch table.
func describePalette(p *colour.Palette) string {
	spaces := make([]string, 0, len(colour.Spaces))
	for _, s := range p.Spaces() {
		spaces = append(spaces, s.String())
	}
	name := p.Name
	if name == "" {
		name = "(unnamed)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name:      %s\n", name)
	fmt.Fprintf(&b, "Swatches:  %d\n", p.Len())
	fmt.Fprintf(&b, "Groups:    %d\n", len(p.Groups))
	fmt.Fprintf(&b, "Spaces:    %s\n", strings.Join(spaces, ", "))
	return b.String()
}

// swatchTable renders one row per swatch in palette order.
func swatchTable(p *colour.Palette, preview bool) *Table {
	headers := []string{"#", "GROUP", "NAME", "SPOT", "VALUE", "HEX"}
	if preview {
		headers = append(headers, "PREVIEW")
	}
	table := NewTable(headers)
	table.SetColumnMaxWidth(2, 32)

	i := 0
	for g, s := range p.All() {
		i++
		group := ""
		if g != nil {
			group = g.Name
		}
		spot := ""
		if s.Spot {
			spot = "spot"
		}
		row := []string{strconv.Itoa(i), group, s.Name, spot, s.Colour.String(), s.Colour.Hex()}
		if preview {
			block, _ := colour.Preview(s.Colour, 6)
			row = append(row, block)
		}
		table.AddRow(row)
	}
	return table
}
