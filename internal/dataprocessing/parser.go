package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// TableReader turns the bytes of one spreadsheet into a text-only table.
// Implementations return an error for content they cannot read; the merger
// treats that as a skipped file.
type TableReader interface {
	ReadTable(name string, content []byte) (*RawTable, error)
}

// Layouts used to render date-styled numeric cells as text
const (
	cellDateTimeLayout = "2006-01-02 15:04:05"
	cellTimeLayout     = "15:04:05"
)

// WorkbookReader reads .xlsx family workbooks with excelize, legacy .xls
// workbooks with extrame/xls and .csv files with encoding/csv. Only the first worksheet of a workbook is read and its
// first row is the header.
type WorkbookReader struct {
	logger *slog.Logger
}

// NewWorkbookReader creates a reader. A nil logger falls back to slog.Default.
func NewWorkbookReader(logger *slog.Logger) *WorkbookReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookReader{logger: logger.With(slog.String("component", "workbook_reader"))}
}

// ReadTable reads the named file's content
func (r *WorkbookReader) ReadTable(name string, content []byte) (*RawTable, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		return r.readCSV(name, content)
	case ".xls":
		return r.readLegacyWorkbook(name, content)
	default:
		return r.readWorkbook(name, content)
	}
}

func (r *WorkbookReader) readWorkbook(name string, content []byte) (*RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}
	sheet := sheets[0]

	formatted, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read raw values of sheet %q: %w", sheet, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	cells := &dateCellRenderer{file: f, sheet: sheet, date1904: date1904, styles: make(map[int]bool)}
	for i, row := range raw {
		for j, value := range row {
			shown := value
			if i < len(formatted) && j < len(formatted[i]) {
				shown = formatted[i][j]
			}
			raw[i][j] = cells.text(i, j, value, shown)
		}
	}

	r.logger.Debug("Read worksheet",
		slog.String("file", name),
		slog.String("sheet", sheet),
		slog.Int("rows", len(raw)))

	return buildTable(raw), nil
}

func (r *WorkbookReader) readCSV(name string, content []byte) (*RawTable, error) {
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	r.logger.Debug("Read CSV file",
		slog.String("file", name),
		slog.Int("rows", len(records)))

	return buildTable(records), nil
}

// buildTable treats the first row as headers. Rows wider than the header
// get "Unnamed: <idx>" columns so no cell is lost.
func buildTable(rows [][]string) *RawTable {
	if len(rows) == 0 {
		return &RawTable{}
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	headers := make([]string, width)
	copy(headers, rows[0])
	table := &RawTable{Headers: uniqueHeaders(headers)}

	for _, row := range rows[1:] {
		cells := make(RawRow, width)
		copy(cells, row)
		table.Rows = append(table.Rows, cells)
	}
	return table
}

// uniqueHeaders names blank headers by position and suffixes repeats with
// .1, .2, ... so every column is addressable.
func uniqueHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]int)
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n+1)
		} else {
			seen[h] = 0
		}
		out[i] = h
	}
	return out
}

// dateCellRenderer renders date- and time-styled numeric cells the way a
// string-typed load of the workbook shows them: dates as
// "2006-01-02 15:04:05" and pure times as "15:04:05".
type dateCellRenderer struct {
	file     *excelize.File
	sheet    string
	date1904 bool
	styles   map[int]bool
}

// text picks the string a cell contributes to the table. Stored values win
// over display formats so "12.5" styled as "0" stays "12.5"; date-styled
// numbers are rendered as timestamps and booleans keep their TRUE/FALSE
// spelling.
func (d *dateCellRenderer) text(row, col int, raw, shown string) string {
	if raw == shown {
		return raw
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return raw
	}

	if serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		if styleID, err := d.file.GetCellStyle(d.sheet, cell); err == nil && d.isDateStyle(styleID) {
			if text, ok := renderSerial(serial, d.date1904); ok {
				return text
			}
		}
	}

	cellType, err := d.file.GetCellType(d.sheet, cell)
	if err != nil {
		return raw
	}
	switch cellType {
	case excelize.CellTypeBool:
		return shown
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return raw
	default:
		return numberText(raw)
	}
}

func (d *dateCellRenderer) isDateStyle(styleID int) bool {
	if isDate, ok := d.styles[styleID]; ok {
		return isDate
	}
	isDate := false
	if style, err := d.file.GetStyle(styleID); err == nil && style != nil {
		isDate = isBuiltInDateFormat(style.NumFmt)
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	d.styles[styleID] = isDate
	return isDate
}

// renderSerial renders a spreadsheet date serial as "2006-01-02 15:04:05",
// or as "15:04:05" when it carries no date part
func renderSerial(serial float64, date1904 bool) (string, bool) {
	if serial < 0 {
		return "", false
	}
	if serial < 1 {
		secs := math.Round(serial * 24 * 60 * 60)
		t := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC).Add(time.Duration(secs) * time.Second)
		return t.Format(cellTimeLayout), true
	}

	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return "", false
	}
	return t.Round(time.Second).Format(cellDateTimeLayout), true
}

// numberText prints a stored number the way a General-formatted cell shows
// it: shortest form, rounded to 15 significant digits when longer
func numberText(raw string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}
	text := strconv.FormatFloat(v, 'f', -1, 64)
	if len(strings.Trim(strings.Replace(text, ".", "", 1), "-")) > 15 {
		text = strconv.FormatFloat(v, 'G', 15, 64)
	}
	return text
}

// isBuiltInDateFormat reports whether a built-in number format ID renders
// a date or time
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom number format contains date or
// time tokens once quoted literals and bracketed sections are removed
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, c := range code {
		switch {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '[':
			inBracket = true
		case c == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(c)
		}
	}
	return strings.ContainsAny(strings.ToLower(b.String()), "ymdhs")
}
