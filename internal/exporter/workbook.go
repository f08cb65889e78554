package exporter

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"macuschedule/pkg/contracts/domain"
)

// Default sheet names of the exported workbook
const (
	DefaultScheduleSheet = "Schedule"
	DefaultSummarySheet  = "Match Counts"
)

const (
	minColumnWidth = 8
	maxColumnWidth = 60
)

// Table is a named block of text cells
type Table struct {
	Name    string
	Headers []string
	Records [][]string
}

// ScheduleTable converts schedule rows into a table
func ScheduleTable(name string, rows []domain.FinalRow) Table {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}
	return Table{Name: name, Headers: domain.ScheduleHeaders(), Records: records}
}

// SummaryTable converts a match summary into a table
func SummaryTable(name string, summary domain.MatchSummary) Table {
	records := make([][]string, 0, len(summary.Rows))
	for _, row := range summary.Rows {
		records = append(records, []string{row.Date, fmt.Sprintf("%d", row.MatchCount)})
	}
	return Table{Name: name, Headers: domain.SummaryHeaders(), Records: records}
}

// WorkbookExporter writes the combined schedule and its match counts into a
// single .xlsx workbook, one sheet per table
type WorkbookExporter struct {
	scheduleSheet string
	summarySheet  string
	logger        *slog.Logger
}

// NewWorkbookExporter creates an exporter. Empty sheet names fall back to
// the defaults.
func NewWorkbookExporter(scheduleSheet, summarySheet string, logger *slog.Logger) *WorkbookExporter {
	if scheduleSheet == "" {
		scheduleSheet = DefaultScheduleSheet
	}
	if summarySheet == "" {
		summarySheet = DefaultSummarySheet
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{
		scheduleSheet: scheduleSheet,
		summarySheet:  summarySheet,
		logger:        logger.With(slog.String("component", "workbook_exporter")),
	}
}

// Tables returns the schedule and summary tables under the configured names
func (e *WorkbookExporter) Tables(schedule []domain.FinalRow, summary domain.MatchSummary) []Table {
	return []Table{
		ScheduleTable(e.scheduleSheet, schedule),
		SummaryTable(e.summarySheet, summary),
	}
}

// Export serializes the schedule and summary into a workbook. The schedule
// sheet is first and active.
func (e *WorkbookExporter) Export(schedule []domain.FinalRow, summary domain.MatchSummary) (*bytes.Buffer, error) {
	return e.ExportTables(e.Tables(schedule, summary)...)
}

// ExportTables writes each table to its own sheet, in order
func (e *WorkbookExporter) ExportTables(tables ...Table) (*bytes.Buffer, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "8EA9DB", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, table := range tables {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), table.Name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %q: %w", table.Name, err)
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", table.Name, err)
		}

		if err := writeTable(f, table, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to write sheet %q: %w", table.Name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	e.logger.Debug("Exported workbook",
		slog.Int("sheets", len(tables)),
		slog.Int("bytes", buf.Len()))
	return buf, nil
}

// WriteFile exports the workbook to path, creating parent directories
func (e *WorkbookExporter) WriteFile(path string, schedule []domain.FinalRow, summary domain.MatchSummary) error {
	buf, err := e.Export(schedule, summary)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Wrote workbook",
		slog.String("path", path),
		slog.Int("schedule_rows", len(schedule)))
	return nil
}

func writeTable(f *excelize.File, table Table, headerStyle int) error {
	widths := make([]int, len(table.Headers))
	rows := append([][]string{table.Headers}, table.Records...)

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(table.Name, cell, value); err != nil {
				return err
			}
			if c < len(widths) {
				widths[c] = max(widths[c], utf8.RuneCountInString(value))
			}
		}
	}

	if len(table.Headers) == 0 {
		return nil
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(table.Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(table.Name, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	for c, w := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		width := float64(min(max(w+2, minColumnWidth), maxColumnWidth))
		if err := f.SetColWidth(table.Name, col, col, width); err != nil {
			return err
		}
	}

	return f.SetPanes(table.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// ExportFilename names a download, e.g. combined_macu_schedule_20250905_1430.xlsx
func ExportFilename(prefix string, now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("20060102_1504"), ext)
}
