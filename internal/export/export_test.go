package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tender-reporter/internal/report"
)

func testInput() *report.ReportInput {
	in := &report.ReportInput{}
	in.Data.MissedButWinnable.RecentWins = []report.Tender{
		{BidNumber: "GEM/2026/B/001", Item: "Chairs", Quantity: 10, TotalPrice: 50_000},
		{BidNumber: "GEM/2026/B/002", Item: "Desks", Quantity: 5, TotalPrice: 75_000},
	}
	in.Data.TopStates = []report.RankedEntry{{Label: "Delhi", Count: 4}}
	in.Data.MissedButWinnable.AI.LikelyWins = []report.Opportunity{
		{BidNumber: "GEM/2026/B/010", Item: "=SUM(A1)", Reason: "repeat buyer"},
	}
	in.Normalize()
	return in
}

func TestCSVExport(t *testing.T) {
	var buf bytes.Buffer
	enc := NewCSVEncoder(&buf)

	res, err := Write(testInput(), enc)
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	assert.Equal(t, 3, res.Datasets)
	assert.Equal(t, 4, res.RowsProcessed)

	out := buf.String()
	assert.Contains(t, out, "# recent_wins")
	assert.Contains(t, out, "bid_number,item,organisation")
	assert.Contains(t, out, "GEM/2026/B/001,Chairs")
	assert.Contains(t, out, "# top_states")
	assert.Contains(t, out, "1,Delhi,4")
	// Datasets separated by a blank line.
	assert.Contains(t, out, "\n\n# top_states")
}

func TestJSONExport(t *testing.T) {
	var buf bytes.Buffer
	enc := NewJSONEncoder(&buf)

	_, err := Write(testInput(), enc)
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "recent_wins", first["dataset"])
	assert.Equal(t, "GEM/2026/B/001", first["bid_number"])
	assert.Equal(t, float64(50_000), first["total_price"])
}

func TestExcelExport(t *testing.T) {
	var buf bytes.Buffer
	enc := NewExcelEncoder(&buf)

	res, err := Write(testInput(), enc)
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	assert.Equal(t, 3, res.Datasets)
	// XLSX container magic.
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

func TestExcelFormulaInjectionGuard(t *testing.T) {
	var buf bytes.Buffer
	enc := NewExcelEncoder(&buf)

	require.NoError(t, enc.StartDataset("t", []string{"a"}))
	require.NoError(t, enc.WriteRow([]interface{}{"=HYPERLINK(evil)"}))
	require.NoError(t, enc.Close())

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	formula, err := f.GetCellFormula("t", "A2")
	require.NoError(t, err)
	assert.Empty(t, formula, "cell must not carry a live formula")
}

func TestNewEncoder(t *testing.T) {
	var buf bytes.Buffer

	for _, f := range []string{"csv", "json", "excel"} {
		enc, err := NewEncoder(f, &buf)
		require.NoError(t, err, f)
		require.NotNil(t, enc)
	}

	_, err := NewEncoder("parquet", &buf)
	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "xlsx", Extension("excel"))
	assert.Equal(t, "csv", Extension("csv"))
	assert.Equal(t, "json", Extension("json"))
}

func TestEmptyInputProducesNoDatasets(t *testing.T) {
	in := &report.ReportInput{}
	in.Normalize()

	var buf bytes.Buffer
	enc := NewCSVEncoder(&buf)
	res, err := Write(in, enc)
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	assert.Zero(t, res.Datasets)
	assert.Zero(t, res.RowsProcessed)
	assert.Empty(t, buf.String())
}
