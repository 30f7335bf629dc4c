package formatter

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVFormatterFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter().Format(&buf, sampleReport()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"Key", "Label", "Faces", "Selected", "Score", "Status"}, records[0])
	assert.Equal(t, []string{"2024-01", "January 2024", "2", "face-a", "0.910", "review"}, records[1])
	assert.Equal(t, []string{"2024-02", "February 2024", "0", "", "", "missing"}, records[2])
}

func TestNewPicksFormatter(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, New("json"))
	assert.IsType(t, &CSVFormatter{}, New("csv"))
	assert.IsType(t, &SummaryFormatter{}, New("summary"))
	assert.IsType(t, &TableFormatter{}, New("table"))
	assert.IsType(t, &TableFormatter{}, New("anything"))
}
