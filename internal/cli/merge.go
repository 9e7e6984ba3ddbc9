package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justjanne/palettelib/internal/convert"
)

func newMergeCmd(a *app) *cobra.Command {
	from := newFormatValue(a.registry)
	to := newFormatValue(a.registry)
	only := &spaceListValue{}
	var (
		output  string
		name    string
		flatten bool
	)

	cmd := &cobra.Command{
		Use:   "merge -o <output> <input>...",
		Short: "Combine several palettes into one",
		Long: `Combine several palettes into one.

Each input becomes one group, named after the input palette, in the order
given. Groups inside an input are flattened into its group.

Examples:
  # Merge two palettes into a Krita palette
  palettelib merge -o all.kpl --name "All colours" primary.gpl accents.ase`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.converter()
			merged, err := c.Merge(cmd.Context(), name, from.String(), args...)
			if err != nil {
				return fmt.Errorf("failed to merge palettes: %w", err)
			}
			merged = convert.Options{Flatten: flatten, Only: only.spaces}.Apply(merged)
			return c.WriteFile(cmd.Context(), output, to.String(), merged)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&name, "name", "", "name of the merged palette")
	cmd.Flags().Var(from, "from", "input format (default: from each input extension)")
	cmd.Flags().Var(to, "to", "output format (default: from the output extension)")
	cmd.Flags().Var(only, "only", "keep only swatches in these colour spaces (rgb, cmyk, lab, gray)")
	cmd.Flags().BoolVar(&flatten, "flatten", false, "write one list of swatches instead of one group per input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
