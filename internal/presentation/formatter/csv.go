package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)

	headers := []string{"Key", "Label", "Faces", "Selected", "Score", "Status"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, row := range report.Rows {
		score := ""
		if row.SelectedID != "" {
			score = strconv.FormatFloat(row.SelectedScore, 'f', 3, 64)
		}
		record := []string{
			row.Key,
			row.Label,
			strconv.Itoa(row.Faces),
			row.SelectedID,
			score,
			row.Status,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
