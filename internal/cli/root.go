// Package cli provides the command-line interface for palettelib.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/justjanne/palettelib/internal/convert"
	"github.com/justjanne/palettelib/internal/version"
	"github.com/justjanne/palettelib/pkg/format"
)

// EnvLogLevel overrides the log level chosen by --verbose and --quiet.
const EnvLogLevel = "PALETTELIB_LOG_LEVEL"

// app holds the state shared by all commands of one root command.
type app struct {
	registry *format.Registry
	logger   hclog.Logger
	verbose  bool
	quiet    bool
}

// converter returns a conversion service bound to the app's logger and
// registry.
func (a *app) converter() *convert.Converter {
	return convert.New(a.logger, a.registry)
}

// NewRootCmd builds the palettelib command tree.
func NewRootCmd() *cobra.Command {
	a := &app{
		registry: format.NewBuilder().WithEnvConfig().Build(),
		logger:   hclog.NewNullLogger(),
	}

	rootCmd := &cobra.Command{
		Use:   "palettelib",
		Short: "Convert colour palettes between file formats",
		Long: `palettelib reads and writes colour palette files.

It converts between GIMP palettes (.gpl), Adobe Color Tables (.act),
Photoshop swatches (.aco), Adobe Swatch Exchange (.ase), Krita palettes (.kpl)
and a plain JSON or YAML palette document. Files ending in .gz or .xz are
compressed transparently; .bz2 files can be read.`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), a.verbose, a.quiet)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newConvertCmd(a))
	rootCmd.AddCommand(newInspectCmd(a))
	rootCmd.AddCommand(newFormatsCmd(a))
	rootCmd.AddCommand(newMergeCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newLogger creates the named logger for a command run. The level is Info,
// Debug with verbose, Error with quiet, and PALETTELIB_LOG_LEVEL wins over both.
func newLogger(out io.Writer, verbose, quiet bool) (hclog.Logger, error) {
	level := hclog.Info
	switch {
	case verbose:
		level = hclog.Debug
	case quiet:
		level = hclog.Error
	}
	if env := strings.TrimSpace(os.Getenv(EnvLogLevel)); env != "" {
		level = hclog.LevelFromString(env)
		if level == hclog.NoLevel {
			return nil, fmt.Errorf("invalid %s %q (valid: trace, debug, info, warn, error, off)", EnvLogLevel, env)
		}
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "palettelib",
		Output: out,
		Level:  level,
	}), nil
}
