package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/msto63/skymodel/internal/catalogue"
	"github.com/msto63/skymodel/internal/skymodel"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "export <model>",
		Aliases: []string{"model2fits"},
		Short:   "Flatten a sky model into a catalogue table",
		Long: `Flatten a sky model into one table row per component and write it as
FITS (.fits), VOTable (.vot), SQLite (.db, .sqlite) or YAML (.yaml, .yml).

Columns: Name, ra, dec, ra_str, dec_str, a, b, pa, freq, peak_flux, alpha.
Only the reference flux of each component's SED is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("output") {
				output = opts.cfg.Export.Output
			}

			model, err := opts.readModel(args[0])
			if err != nil {
				return err
			}

			runID := uuid.New().String()
			tbl := skymodel.NewCatalogue(opts.cfg.Export.Table, model.Rows())
			logger := opts.logger.With("run_id", runID)

			err = catalogue.Write(cmd.Context(), output, tbl, catalogue.WriteOptions{
				TableName: opts.cfg.Export.Table,
				RunID:     runID,
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			logger.Info("catalogue written", "path", output, "rows", tbl.Len())
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d components to %s\n", tbl.Len(), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "Skymodel.fits", "the catalogue file to write; format follows the extension")
	return cmd
}
