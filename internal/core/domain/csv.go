package domain

import (
	"strings"
	"time"
)

// csvBOM lets spreadsheet tools detect UTF-8 when opening the export.
const csvBOM = "\uFEFF"

// EscapeCSVCell wraps a cell in double quotes, doubling internal quotes,
// iff the cell contains a comma, a double quote, or a newline. Anything
// else is emitted verbatim.
func EscapeCSVCell(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// TicketsCSV serializes a column-projected record set as CSV text with a
// UTF-8 BOM prefix. The header row carries the column labels; each ticket
// row carries the extracted display values, in the caller's column and row
// order. The exporter never re-sorts.
func TicketsCSV(tickets []*Ticket, columns []ColumnDefinition, categories CategoryMap) string {
	var b strings.Builder
	b.WriteString(csvBOM)

	for i, col := range columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EscapeCSVCell(col.Label))
	}

	for _, t := range tickets {
		b.WriteByte('\n')
		for i, col := range columns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(EscapeCSVCell(ExtractValue(t, col.Key, categories)))
		}
	}
	return b.String()
}

// ExportFilename is the download name for a CSV export generated at ts.
func ExportFilename(ts time.Time) string {
	return "it-desk-tickets-" + ts.Format("2006-01-02") + ".csv"
}
