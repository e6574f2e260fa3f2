package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/yildizm/kcalc/internal/batch"
)

// csvFormatter writes one record per evaluated line
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

var csvHeaders = []string{
	"Line",
	"Input",
	"Value",
	"Formatted",
	"Exact",
	"Error Type",
	"Error Message",
	"Notice",
}

func (f *csvFormatter) Format(report *batch.Report) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, l := range report.Lines {
		record := []string{
			strconv.Itoa(l.Number),
			escapeCSVString(l.Input),
			"", "", "", "", "",
			l.Notice,
		}
		if l.OK() {
			record[2] = strconv.FormatFloat(l.Value, 'g', -1, 64)
			record[3] = l.Formatted
			record[4] = l.Exact
		} else {
			record[5] = string(l.Error.Type)
			record[6] = escapeCSVString(l.Error.Message)
		}

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}

// escapeCSVString flattens line breaks and caps long fields
func escapeCSVString(s string) string {
	return truncate(singleLine(s), 100)
}
