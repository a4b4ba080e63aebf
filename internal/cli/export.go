package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dtroode/shoe-inventory/internal/export"
)

func newExportCommand(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every shoe to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.awaitSnapshot(cmd.Context()); err != nil {
				return err
			}
			records := app.Session.Records()

			if output == "-" {
				return export.WriteCSV(app.Out, records)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			if err := export.WriteCSV(f, records); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close export file: %w", err)
			}

			fmt.Fprintf(app.Out, "Exported %d shoes to %s\n", len(records), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", export.FileName, "Output file, - for stdout")

	return cmd
}
