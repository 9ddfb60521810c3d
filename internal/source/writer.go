package source

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/xyston/caseload/internal/model"
)

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteCSV exports participants with the import headers, so the output
// can be re-imported unchanged.
func WriteCSV(w io.Writer, ps []model.Participant) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return err
	}
	for _, p := range ps {
		rec := []string{
			p.Name,
			p.NDISNumber,
			string(p.Level),
			formatNumber(p.Budget),
			formatNumber(p.Balance),
			p.PlanEnd,
			formatNumber(p.Hours),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTemplate writes a blank import template with one example row.
func WriteTemplate(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string(nil), Headers...)
	header[5] = ColPlanEnd + " (YYYY-MM-DD)"
	rows := [][]string{
		header,
		{"John Doe", "430123456", string(model.Level2), "18000", "15000", "2025-12-31", "1.5"},
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
