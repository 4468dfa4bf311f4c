package leads

import (
	"strings"
	"time"
)

// csvHeader is the column set consumers of the export rely on.
var csvHeader = []string{"ID", "Nombre", "Email", "Mensaje", "Fecha", "IP", "User Agent"}

// isoMillis matches the timestamp format the admin exports have always used.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// ExportCSV renders leads as CSV, one row per lead after the header.
// Mensaje and User Agent are always quoted; other columns only when they
// contain a delimiter, quote or line break. Rows are separated by "\n".
func ExportCSV(leads []Lead) string {
	var b strings.Builder
	writeCSVRow(&b, csvHeader, nil)
	for _, lead := range leads {
		b.WriteByte('\n')
		writeCSVRow(&b, []string{
			lead.ID,
			lead.Name,
			lead.Email,
			lead.Message,
			lead.CreatedAt.UTC().Format(isoMillis),
			lead.IP,
			lead.UserAgent,
		}, alwaysQuoted)
	}
	return b.String()
}

// alwaysQuoted marks the Mensaje and User Agent columns.
var alwaysQuoted = map[int]bool{3: true, 6: true}

func writeCSVRow(b *strings.Builder, fields []string, forceQuote map[int]bool) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		if forceQuote[i] || strings.ContainsAny(field, ",\"\r\n") {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
			continue
		}
		b.WriteString(field)
	}
}

// ExportFilename returns the attachment name for an export taken at t.
func ExportFilename(t time.Time) string {
	return "leads-" + t.UTC().Format("2006-01-02") + ".csv"
}
