package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/dtroode/shoe-inventory/internal/model"
)

const emptyTableMessage = "No shoe records found. Run 'shoes add' to add one!"

func renderTable(w io.Writer, shoes []model.Shoe) error {
	if len(shoes) == 0 {
		_, err := fmt.Fprintln(w, emptyTableMessage)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Size", "Season", "Image", "Details"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)

	for _, s := range shoes {
		table.Append([]string{
			s.ID,
			model.FormatSize(s.Size),
			s.Season.String(),
			orDefault(s.ImageURL, "No Image"),
			orDefault(s.Details, "N/A"),
		})
	}
	table.Render()

	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
