package leads

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSVHeaderOnly(t *testing.T) {
	assert.Equal(t, `ID,Nombre,Email,Mensaje,Fecha,IP,User Agent`, ExportCSV(nil))
}

func TestExportCSVRow(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.UTC)
	out := ExportCSV([]Lead{{
		ID:        "id-1",
		Name:      "John Doe",
		Email:     "john@example.com",
		Message:   "Hola",
		CreatedAt: created,
		IP:        "127.0.0.1",
		UserAgent: "test-agent",
	}})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `id-1,John Doe,john@example.com,"Hola",2024-01-02T03:04:05.678Z,127.0.0.1,"test-agent"`, lines[1])
}

func TestExportCSVEscapesQuotes(t *testing.T) {
	out := ExportCSV([]Lead{{
		ID:        "id-1",
		Name:      "Doe, John",
		Email:     "john@example.com",
		Message:   "He said \"hi\",\nthen left",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UserAgent: `Mozilla "5.0"`,
	}})

	assert.Contains(t, out, `"He said ""hi"",`)
	assert.Contains(t, out, `"Mozilla ""5.0"""`)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	row := records[1]
	require.Len(t, row, 7)
	assert.Equal(t, "Doe, John", row[1])
	assert.Equal(t, "He said \"hi\",\nthen left", row[3])
	assert.Equal(t, "", row[5])
	assert.Equal(t, `Mozilla "5.0"`, row[6])
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "leads-2024-03-09.csv", ExportFilename(at))
}
