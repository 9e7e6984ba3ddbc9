package cli

import (
	"github.com/spf13/cobra"

	"github.com/justjanne/palettelib/internal/convert"
)

func newConvertCmd(a *app) *cobra.Command {
	from := newFormatValue(a.registry)
	to := newFormatValue(a.registry)
	only := &spaceListValue{}
	var opts convert.Options

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a palette file to another format",
		Long: `Convert a palette file to another format.

Formats are chosen by file extension unless --from or --to is given. Data
the output format cannot store (palette names, swatch names, spot flags or
groups) is dropped with a warning. Colour values are never converted between
colour spaces: use --only to keep just the swatches the output format can hold.

Examples:
  # Convert an Adobe Swatch Exchange file to a GIMP palette
  palettelib convert brand.ase brand.gpl

  # Keep only the RGB swatches of a mixed palette
  palettelib convert --only rgb print.kpl screen.act

  # Write a compressed YAML document with a new name
  palettelib convert --name "Brand 2025" brand.aco brand.palette.yaml.gz

  # Read a file whose extension does not match its contents
  palettelib convert --from aco swatches.bin swatches.ase`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Only = only.spaces
			return a.converter().Convert(cmd.Context(), args[0], args[1], from.String(), to.String(), opts)
		},
	}

	cmd.Flags().Var(from, "from", "input format (default: from the input extension)")
	cmd.Flags().Var(to, "to", "output format (default: from the output extension)")
	cmd.Flags().Var(only, "only", "keep only swatches in these colour spaces (rgb, cmyk, lab, gray)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "set the palette name")
	cmd.Flags().BoolVar(&opts.Flatten, "flatten", false, "merge all groups into one list of swatches")
	return cmd
}
