package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// CSVHeader is the header row of the tabular export.
var CSVHeader = []string{"Parameter", "Value"}

// WriteCSV writes rows as comma-separated text with a Parameter,Value header.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Parameter, r.Value}); err != nil {
			return fmt.Errorf("write csv row %q: %w", r.Parameter, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderCSV renders rows as CSV string.
func RenderCSV(rows []Row) string {
	var sb strings.Builder
	// strings.Builder never fails
	_ = WriteCSV(&sb, rows)
	return sb.String()
}

// ExportFilename returns the CSV filename for an export made at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("simulation_results_%s.csv", t.UTC().Format("20060102T150405Z"))
}
