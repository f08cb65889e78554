package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"macuschedule/pkg/contracts/domain"
)

func sampleSchedule() ([]domain.FinalRow, domain.MatchSummary) {
	rows := []domain.FinalRow{
		{Date: "7/12-7/14/2025", Time: "TBA", Team: "Golf", Meet: "Summer Classic", Location: "TBA", Distance: "0"},
		{Date: "05/09/2025", Time: "09:00 AM", Team: "Cross Country", Meet: "Invitational", Location: "Lakeside Park", Distance: "42"},
		{Date: "05/09/2025", Time: "07:00 PM", Team: "Volleyball", Opponent: "Rivals", Location: "Home", Distance: "0"},
	}
	summary := domain.MatchSummary{
		Rows: []domain.SummaryRow{
			{Date: "7/12-7/14/2025", MatchCount: 1},
			{Date: "05/09/2025", MatchCount: 2},
		},
		TotalMatches:  3,
		DistinctDates: 2,
	}
	return rows, summary
}

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWorkbookExporter_Export(t *testing.T) {
	rows, summary := sampleSchedule()
	exp := NewWorkbookExporter("", "", nil)

	buf, err := exp.Export(rows, summary)
	require.NoError(t, err)

	f := openWorkbook(t, buf)
	assert.Equal(t, []string{DefaultScheduleSheet, DefaultSummarySheet}, f.GetSheetList())
	assert.Equal(t, 0, f.GetActiveSheetIndex())

	schedule, err := f.GetRows(DefaultScheduleSheet)
	require.NoError(t, err)
	require.Len(t, schedule, 4)
	assert.Equal(t, domain.ScheduleHeaders(), schedule[0])
	assert.Equal(t, []string{"7/12-7/14/2025", "TBA", "Golf", "", "Summer Classic", "TBA", "0"}, schedule[1])
	assert.Equal(t, rows[2].Record(), schedule[3])

	counts, err := f.GetRows(DefaultSummarySheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Date", "Match Count"},
		{"7/12-7/14/2025", "1"},
		{"05/09/2025", "2"},
	}, counts)
}

func TestWorkbookExporter_Export_CellsAreText(t *testing.T) {
	rows, summary := sampleSchedule()
	buf, err := NewWorkbookExporter("", "", nil).Export(rows, summary)
	require.NoError(t, err)

	f := openWorkbook(t, buf)
	for _, cell := range []string{"A3", "G3"} {
		cellType, err := f.GetCellType(DefaultScheduleSheet, cell)
		require.NoError(t, err)
		assert.NotEqual(t, excelize.CellTypeNumber, cellType, cell)
		assert.NotEqual(t, excelize.CellTypeDate, cellType, cell)
	}
	cellType, err := f.GetCellType(DefaultSummarySheet, "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeNumber, cellType)
}

func TestWorkbookExporter_Export_Formatting(t *testing.T) {
	rows, summary := sampleSchedule()
	buf, err := NewWorkbookExporter("", "", nil).Export(rows, summary)
	require.NoError(t, err)

	f := openWorkbook(t, buf)

	panes, err := f.GetPanes(DefaultScheduleSheet)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)

	styleID, err := f.GetCellStyle(DefaultScheduleSheet, "C1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	// "Distance from MACU (miles)" is the longest value in column G
	width, err := f.GetColWidth(DefaultScheduleSheet, "G")
	require.NoError(t, err)
	assert.Equal(t, float64(len(domain.ColumnDistance)+2), width)

	// short columns are kept readable
	width, err = f.GetColWidth(DefaultSummarySheet, "B")
	require.NoError(t, err)
	assert.Equal(t, float64(len(domain.ColumnMatchCount)+2), width)
}

func TestWorkbookExporter_CustomSheetNames(t *testing.T) {
	rows, summary := sampleSchedule()
	buf, err := NewWorkbookExporter("Fall 2025", "Per Day", nil).Export(rows, summary)
	require.NoError(t, err)

	f := openWorkbook(t, buf)
	assert.Equal(t, []string{"Fall 2025", "Per Day"}, f.GetSheetList())
}

func TestWorkbookExporter_EmptySchedule(t *testing.T) {
	buf, err := NewWorkbookExporter("", "", nil).Export(nil, domain.MatchSummary{})
	require.NoError(t, err)

	f := openWorkbook(t, buf)
	schedule, err := f.GetRows(DefaultScheduleSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{domain.ScheduleHeaders()}, schedule)
}

func TestWorkbookExporter_ExportTables_NoTables(t *testing.T) {
	_, err := NewWorkbookExporter("", "", nil).ExportTables()
	assert.Error(t, err)
}

func TestWorkbookExporter_WriteFile(t *testing.T) {
	rows, summary := sampleSchedule()
	path := filepath.Join(t.TempDir(), "out", "combined.xlsx")

	require.NoError(t, NewWorkbookExporter("", "", nil).WriteFile(path, rows, summary))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	f := openWorkbook(t, bytes.NewBuffer(content))
	assert.Len(t, f.GetSheetList(), 2)
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2025, time.September, 5, 14, 30, 59, 0, time.UTC)

	assert.Equal(t, "combined_macu_schedule_20250905_1430.xlsx", ExportFilename("combined_macu_schedule", now, "xlsx"))
	assert.Equal(t, "report_20250905_1430.csv", ExportFilename("report", now, "csv"))
}
