// Package dataprocessing combines team schedule spreadsheets into a single
// chronologically sorted schedule with a per-date match count.
//
// # Pipeline
//
// Each input file is handled on its own:
//
//	bytes → TableReader → RawTable → ResolveColumns → CanonicalRow (+ sort keys)
//
// Surviving rows from all files are concatenated in file order, stably
// sorted by (DateKey, TimeKey), projected to domain.FinalRow and counted
// per display date by Summarize.
//
// # Column discovery
//
// Headers are matched by substring against ordered synonym lists, so
// "Game Date", "Dates" and "date " all supply the date field. A file with
// no date column is skipped with a warning.
//
// # Dates
//
// NormalizeDate understands three notations, checked in order:
//
//	7/12-7/14/2025        range, start read month-first
//	2025-09-05 10:00:00   ISO, time part ignored
//	05/09/25              everything else, read day-first
//
// Values that cannot be read become Unparseable and sort after every date.
// Range entries keep their original text for display; all other parsed
// dates are shown as dd/mm/yyyy.
//
// # Times
//
// NormalizeTime renders times as "03:04 PM". Blank and TBA values show as
// "TBA" and sort after all times; text matching no format is shown as-is
// and sorts before all times.
//
// # Errors
//
// Cell-level problems never surface as errors. File-level problems become
// domain.FileWarning values on the MergeResult. A result with no rows is
// reported through MergeResult.HasData.
package dataprocessing
