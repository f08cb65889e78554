package dataprocessing

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// xlsStampFormat is a number format ID above the built-in range. The BIFF
// reader prints cells whose format it cannot name as RFC 3339 timestamps,
// so pointing a date format at it marks those cells.
const xlsStampFormat = 0xFFFF

// xlsFormulaPlaceholder is what the BIFF reader returns for formula cells
const xlsFormulaPlaceholder = "FormulaCol"

// readLegacyWorkbook reads the first worksheet of a BIFF (.xls) workbook.
// The sheet is read twice: once with date formats switched to timestamps to
// find the date-styled cells, and once with every format set to General to
// get their stored serials, which are then rendered like .xlsx date cells.
func (r *WorkbookReader) readLegacyWorkbook(name string, content []byte) (table *RawTable, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			table, err = nil, fmt.Errorf("malformed .xls workbook: %v", rec)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open .xls workbook: %w", err)
	}
	if wb == nil {
		return nil, fmt.Errorf("failed to open .xls workbook: no Workbook stream")
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}

	formats := newXLSFormats(wb)
	sheet := wb.GetSheet(0)

	formats.stampDates()
	stamped := readXLSSheet(sheet)
	formats.clearDates()
	values := readXLSSheet(sheet)

	for i, row := range values {
		for j, value := range row {
			if value == xlsFormulaPlaceholder {
				values[i][j] = ""
				continue
			}
			if j >= len(stamped[i]) {
				continue
			}
			if text, ok := xlsDateText(stamped[i][j], value); ok {
				values[i][j] = text
			}
		}
	}

	r.logger.Debug("Read legacy worksheet",
		slog.String("file", name),
		slog.String("sheet", sheet.Name),
		slog.Int("rows", len(values)))

	return buildTable(values), nil
}

// xlsFormats switches the number format of every date-styled XF record
type xlsFormats struct {
	wb    *xls.WorkBook
	dates []int
}

func newXLSFormats(wb *xls.WorkBook) *xlsFormats {
	formats := &xlsFormats{wb: wb}
	for i, xf := range wb.Xfs {
		id, ok := xfFormat(xf)
		// the reader treats every custom format as a date
		if ok && (isBuiltInDateFormat(int(id)) || id >= 164) {
			formats.dates = append(formats.dates, i)
		}
	}
	if wb.Formats == nil {
		wb.Formats = make(map[uint16]*xls.Format)
	}
	return formats
}

func (f *xlsFormats) stampDates() {
	f.wb.Formats[xlsStampFormat] = &xls.Format{}
	for _, i := range f.dates {
		if id, _ := xfFormat(f.wb.Xfs[i]); isBuiltInDateFormat(int(id)) {
			setXFFormat(f.wb.Xfs[i], xlsStampFormat)
		}
	}
}

func (f *xlsFormats) clearDates() {
	for _, i := range f.dates {
		setXFFormat(f.wb.Xfs[i], 0)
	}
}

func xfFormat(xf interface{}) (uint16, bool) {
	switch x := xf.(type) {
	case *xls.Xf8:
		return x.Format, true
	case *xls.Xf5:
		return x.Format, true
	}
	return 0, false
}

func setXFFormat(xf interface{}, id uint16) {
	switch x := xf.(type) {
	case *xls.Xf8:
		x.Format = id
	case *xls.Xf5:
		x.Format = id
	}
}

// readXLSSheet returns the sheet's cells row by row with trailing empty
// cells dropped. Rows the sheet never mentions come back empty.
func readXLSSheet(sheet *xls.WorkSheet) [][]string {
	rows := make([][]string, int(sheet.MaxRow)+1)
	widest := 0
	for i := range rows {
		row := xlsRow(sheet, i)
		if row == nil {
			continue
		}
		last := row.LastCol()
		if last < widest {
			last = widest
		}
		cells := make([]string, 0, last+1)
		for j := 0; j <= last; j++ {
			cells = append(cells, row.Col(j))
		}
		for len(cells) > 0 && cells[len(cells)-1] == "" {
			cells = cells[:len(cells)-1]
		}
		if len(cells) > widest {
			widest = len(cells)
		}
		rows[i] = cells
	}
	return rows
}

// xlsRow guards against WorkSheet.Row dereferencing a row that has no record
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// xlsDateText renders a cell that printed as a timestamp with its date
// format and as a number without it
func xlsDateText(stamped, value string) (string, bool) {
	if stamped == value {
		return "", false
	}
	stamp, err := time.Parse(time.RFC3339, stamped)
	if err != nil {
		return "", false
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return "", false
	}
	if serial < 1 {
		return renderSerial(serial, false)
	}

	// the workbook's 1904 flag is not exported; the stamp already carries it
	date1904 := false
	if t, err := excelize.ExcelDateToTime(serial, false); err == nil && absDuration(t.Sub(stamp)) > 48*time.Hour {
		date1904 = true
	}
	return renderSerial(serial, date1904)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
