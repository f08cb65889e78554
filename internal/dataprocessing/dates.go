package dataprocessing

import (
	"strings"
	"time"
)

// DisplayDateLayout renders parsed dates day-first
const DisplayDateLayout = "02/01/2006"

// dayFirstLayouts are tried in order for the default branch. Ambiguous
// slash dates such as 05/09/25 read as 5 September, and year-first ones
// keep the day ahead of the month, so 2025/09/05 is 9 May.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2.1.2006",
	"2.1.06",
	"2006/2/1",
	"2006.2.1",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"Mon, Jan 2, 2006",
	"Monday, January 2, 2006",
	"Mon Jan 2 2006",
	"20060102",
}

// monthFirstLayouts catch slash dates that cannot be day-first,
// e.g. 12/25/2025 or 2025/09/25.
var monthFirstLayouts = []string{
	"1/2/2006",
	"1/2/06",
	"2006/1/2",
	"2006.1.2",
}

// isBlankSentinel reports whether a trimmed cell stands for "no value"
func isBlankSentinel(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "TBA", "NAN":
		return true
	}
	return false
}

// isRangeDate reports whether the text uses range notation like 7/12-7/14/2025
func isRangeDate(s string) bool {
	return strings.Contains(s, "-") && strings.Contains(s, "/")
}

// NormalizeDate converts a raw date cell into a DateKey. It never fails:
// anything it cannot read becomes Unparseable.
func NormalizeDate(raw string) DateKey {
	if isBlankSentinel(raw) {
		return Unparseable
	}
	s := strings.TrimSpace(raw)

	switch {
	case isRangeDate(s):
		return parseRangeStart(s)
	case strings.Count(s, "-") == 2:
		return parseISODate(s)
	default:
		return parseDayFirst(s)
	}
}

// parseRangeStart reads the start of "start-end/year" month-first
func parseRangeStart(s string) DateKey {
	start := strings.TrimSpace(s[:strings.Index(s, "-")])
	year := strings.TrimSpace(s[strings.LastIndex(s, "/")+1:])
	t, err := time.Parse("1/2/2006", start+"/"+year)
	if err != nil {
		return Unparseable
	}
	return Parsed(t)
}

// parseISODate reads year-month-day, ignoring anything after a space
func parseISODate(s string) DateKey {
	if i := strings.Index(s, " "); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse("2006-1-2", s)
	if err != nil {
		return Unparseable
	}
	return Parsed(t)
}

func parseDayFirst(s string) DateKey {
	if k := parseWithLayouts(s); k.Valid {
		return k
	}
	// Tolerate a trailing time of day, as in "05/09/2025 10:00"
	if fields := strings.Fields(s); len(fields) > 1 {
		return parseWithLayouts(fields[0])
	}
	return Unparseable
}

func parseWithLayouts(s string) DateKey {
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Parsed(t)
		}
	}
	for _, layout := range monthFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Parsed(t)
		}
	}
	return Unparseable
}

// FormatDisplayDate picks the final display text for a sorted row. Range
// entries keep their original text; other parsed dates are re-rendered
// day-first regardless of how they were written.
func FormatDisplayDate(row CanonicalRow) string {
	if isRangeDate(row.DisplayDate) {
		return row.DisplayDate
	}
	if row.SortDate.Valid {
		return row.SortDate.Value.Format(DisplayDateLayout)
	}
	return row.DisplayDate
}
