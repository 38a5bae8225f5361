package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/skymodel/internal/bridge"
	skyerr "github.com/msto63/skymodel/pkg/core/error"
)

func newBridgeCmd(opts *rootOptions) *cobra.Command {
	var (
		input  string
		output string
		cols   bridge.Columns
	)

	cmd := &cobra.Command{
		Use:     "bridge --catalogue <file>",
		Aliases: []string{"vo2model"},
		Short:   "Convert a FITS or VOTable catalogue into a sky model",
		Long: `Convert a FITS (.fits) or VOTable (.vot) catalogue into a sky model file.

Every catalogue row becomes one source with a single component. Rows with a
zero major axis are written as point sources, all others as gaussians.
RA and Dec columns must hold colon separated sexagesimal strings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return skyerr.New("must specify input catalogue").WithCode(skyerr.CodeMissingOption)
			}
			if !cmd.Flags().Changed("output") {
				output = opts.cfg.Bridge.Output
			}

			conv := &bridge.Converter{
				Columns: resolveColumns(cmd, cols, opts),
				Logger:  opts.logger,
			}
			n, err := conv.Convert(input, output)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d sources to %s\n", n, output)
			return nil
		},
	}

	d := bridge.DefaultColumns()
	f := cmd.Flags()
	f.StringVar(&input, "catalogue", "", "the catalogue to read (.fits or .vot)")
	f.StringVar(&output, "output", "test.txt", "the sky model file to write")
	f.StringVar(&cols.Name, "namecol", d.Name, "name column")
	f.StringVar(&cols.RA, "racol", d.RA, "RA column")
	f.StringVar(&cols.Dec, "decol", d.Dec, "Dec column")
	f.StringVar(&cols.Major, "acol", d.Major, "major axis column")
	f.StringVar(&cols.Minor, "bcol", d.Minor, "minor axis column")
	f.StringVar(&cols.PA, "pacol", d.PA, "position angle column")
	f.StringVar(&cols.Flux, "fluxcol", d.Flux, "flux density column")
	f.StringVar(&cols.Freq, "fcol", d.Freq, "frequency column")
	f.StringVar(&cols.Alpha, "alphacol", d.Alpha, "spectral index alpha column")

	return cmd
}

// resolveColumns prefers explicit flags, then config, then the flag
// defaults
func resolveColumns(cmd *cobra.Command, flagCols bridge.Columns, opts *rootOptions) bridge.Columns {
	c := opts.cfg.Bridge.Columns
	out := flagCols
	for _, f := range []struct {
		flag string
		dst  *string
		cfg  string
	}{
		{"namecol", &out.Name, c.Name},
		{"racol", &out.RA, c.RA},
		{"decol", &out.Dec, c.Dec},
		{"acol", &out.Major, c.Major},
		{"bcol", &out.Minor, c.Minor},
		{"pacol", &out.PA, c.PA},
		{"fluxcol", &out.Flux, c.Flux},
		{"fcol", &out.Freq, c.Freq},
		{"alphacol", &out.Alpha, c.Alpha},
	} {
		if !cmd.Flags().Changed(f.flag) && f.cfg != "" {
			*f.dst = f.cfg
		}
	}
	return out.WithDefaults()
}
