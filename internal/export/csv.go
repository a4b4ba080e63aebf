// Package export writes the shoe record set as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dtroode/shoe-inventory/internal/model"
)

// FileName is the default name of the exported file.
const FileName = "shoe_data.csv"

// Header is the first row of every export.
var Header = []string{"Shoe Size", "Season", "Image", "Details"}

// WriteCSV writes one row per record after the header row. Fields that
// contain quotes, commas or line breaks are quoted with quotes doubled.
func WriteCSV(w io.Writer, records []model.Shoe) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			model.FormatSize(r.Size),
			r.Season.String(),
			r.ImageURL,
			r.Details,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for shoe %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return nil
}
