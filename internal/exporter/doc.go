// Package exporter writes the combined schedule in downloadable formats.
//
// WorkbookExporter produces a single .xlsx workbook with a "Schedule" sheet
// and a "Match Counts" sheet. Every cell is written as text, the header row
// is bold and frozen, and columns are sized to their content.
//
// CSVWriter writes one table as CSV, either to an io.Writer such as an HTTP
// response or to a file under an output directory, with an optional UTF-8
// BOM for Excel compatibility.
//
// Example usage:
//
//	wb := exporter.NewWorkbookExporter("", "", logger)
//	buf, err := wb.Export(result.Schedule, result.Summary)
//
//	csvWriter := exporter.NewCSVWriter("reports")
//	path, err := csvWriter.WriteCSV("schedule.csv",
//		exporter.TableOptions(exporter.ScheduleTable("Schedule", result.Schedule)))
package exporter
