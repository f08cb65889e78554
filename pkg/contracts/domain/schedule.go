package domain

// Output column headers. These are part of the exported workbook contract.
const (
	ColumnDate       = "Date"
	ColumnTime       = "Time"
	ColumnTeam       = "MACU Team"
	ColumnOpponent   = "Opponent"
	ColumnMeet       = "Meet"
	ColumnLocation   = "Location"
	ColumnDistance   = "Distance from MACU (miles)"
	ColumnMatchCount = "Match Count"
)

// Display placeholders used when a value could not be determined
const (
	PlaceholderTBA      = "TBA"
	PlaceholderDistance = "0"
)

// FinalRow is one row of the combined schedule as presented to users
type FinalRow struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Team     string `json:"macu_team"`
	Opponent string `json:"opponent"`
	Meet     string `json:"meet"`
	Location string `json:"location"`
	Distance string `json:"distance_from_macu_miles"`
}

// Record returns the row in ScheduleHeaders order
func (r FinalRow) Record() []string {
	return []string{r.Date, r.Time, r.Team, r.Opponent, r.Meet, r.Location, r.Distance}
}

// ScheduleHeaders returns the column headers of the schedule table
func ScheduleHeaders() []string {
	return []string{
		ColumnDate,
		ColumnTime,
		ColumnTeam,
		ColumnOpponent,
		ColumnMeet,
		ColumnLocation,
		ColumnDistance,
	}
}

// SummaryRow counts the matches sharing one display date
type SummaryRow struct {
	Date       string `json:"date"`
	MatchCount int    `json:"match_count"`
}

// SummaryHeaders returns the column headers of the match count table
func SummaryHeaders() []string {
	return []string{ColumnDate, ColumnMatchCount}
}

// MatchSummary is the per-date aggregation of a combined schedule.
// Rows are ordered by the first appearance of each date in the schedule.
type MatchSummary struct {
	Rows          []SummaryRow `json:"rows"`
	TotalMatches  int          `json:"total_matches"`
	DistinctDates int          `json:"distinct_dates"`
}

// AverageMatchesPerDate returns TotalMatches / DistinctDates, or 0 when
// there are no dates.
func (s MatchSummary) AverageMatchesPerDate() float64 {
	if s.DistinctDates == 0 {
		return 0
	}
	return float64(s.TotalMatches) / float64(s.DistinctDates)
}

// FileWarningKind classifies why a file did not contribute rows
type FileWarningKind string

const (
	WarningMissingDate FileWarningKind = "missing_date_column"
	WarningUnreadable  FileWarningKind = "unreadable"
)

// FileWarning reports a skipped input file
type FileWarning struct {
	File    string          `json:"file"`
	Kind    FileWarningKind `json:"kind"`
	Message string          `json:"message"`
}
