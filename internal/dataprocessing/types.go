package dataprocessing

import (
	"time"

	"macuschedule/pkg/contracts/domain"
)

// SourceFile is one uploaded or discovered schedule file
type SourceFile struct {
	Name    string
	Content []byte
}

// RawTable is the text-only content of one spreadsheet: a header row and
// the data rows below it. Row i has at most len(Headers) cells.
type RawTable struct {
	Headers []string
	Rows    []RawRow
}

// RawRow holds the cell text of one data row, positionally aligned with
// RawTable.Headers.
type RawRow []string

// Cell returns the text at column idx, or "" when the row is short.
func (r RawRow) Cell(idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return r[idx]
}

// IsEmpty reports whether every cell of the row is blank
func (r RawRow) IsEmpty() bool {
	for _, c := range r {
		if c != "" {
			return false
		}
	}
	return true
}

// DateKey is the orderable form of a raw date cell: either a parsed
// calendar date or Unparseable, which sorts after every valid date.
type DateKey struct {
	Value time.Time
	Valid bool
}

// Unparseable is the DateKey of a cell that could not be read as a date
var Unparseable = DateKey{}

// Parsed wraps a successfully parsed date
func Parsed(t time.Time) DateKey {
	return DateKey{Value: t, Valid: true}
}

// Compare orders valid dates chronologically and Unparseable last
func (k DateKey) Compare(other DateKey) int {
	switch {
	case k.Valid && other.Valid:
		return k.Value.Compare(other.Value)
	case k.Valid:
		return -1
	case other.Valid:
		return 1
	default:
		return 0
	}
}

// TimeKind positions a time cell relative to parseable times
type TimeKind int

const (
	// TimeUnparsed is present time text that matched no known format.
	// It orders before every known time.
	TimeUnparsed TimeKind = iota
	// TimeKnown is a parsed time of day
	TimeKnown
	// TimeUnknown is a missing or TBA time. It orders after every known time.
	TimeUnknown
)

// TimeKey is the orderable form of a normalized time cell
type TimeKey struct {
	Kind    TimeKind
	Minutes int
}

// Compare orders unparsed text first, then known times, then TBA
func (k TimeKey) Compare(other TimeKey) int {
	if k.Kind != other.Kind {
		if k.Kind < other.Kind {
			return -1
		}
		return 1
	}
	if k.Kind != TimeKnown {
		return 0
	}
	switch {
	case k.Minutes < other.Minutes:
		return -1
	case k.Minutes > other.Minutes:
		return 1
	default:
		return 0
	}
}

// CanonicalRow is a RawRow projected onto the canonical schema plus its
// derived sort keys. Sort keys never leave this package's sorter; display
// values are derived separately.
type CanonicalRow struct {
	Date        string
	Time        string
	Opponent    string
	Meet        string
	Location    string
	Distance    string
	SourceTeam  string
	DisplayDate string
	DisplayTime string

	SortDate DateKey
	SortTime TimeKey

	// Seq is the position of the row in file-then-row order
	Seq int
}

// MergeResult is the output of a merge. An empty Schedule means no file
// produced rows; callers report that as "no data" rather than an error.
type MergeResult struct {
	Schedule    []domain.FinalRow    `json:"schedule"`
	Summary     domain.MatchSummary  `json:"summary"`
	Warnings    []domain.FileWarning `json:"warnings"`
	FilesMerged int                  `json:"files_merged"`
}

// HasData reports whether the merge produced at least one schedule row
func (r *MergeResult) HasData() bool {
	return r != nil && len(r.Schedule) > 0
}
