package dataprocessing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macuschedule/pkg/contracts/domain"
)

// stubReader serves pre-built tables by file name
type stubReader struct {
	tables map[string]*RawTable
	errs   map[string]error
	panics map[string]bool
}

func (s *stubReader) ReadTable(name string, _ []byte) (*RawTable, error) {
	if s.panics[name] {
		panic("corrupt shared strings")
	}
	if err := s.errs[name]; err != nil {
		return nil, err
	}
	return s.tables[name], nil
}

func csvFile(name, body string) SourceFile {
	return SourceFile{Name: name, Content: []byte(body)}
}

func TestMerger_Merge_EndToEnd(t *testing.T) {
	merger := NewMerger(NewWorkbookReader(nil), nil)

	result := merger.Merge(context.Background(), []SourceFile{
		csvFile("Volleyball.csv", "Date,Time,Opponent,Location\n06/09/2025,17:00:00,Rivals,Home\n"),
		csvFile("Cross Country.csv", "Dates,Times,Meet,Distance from MACU (miles)\n05/09/2025,9:00 AM,Invitational,42\n"),
	})

	require.True(t, result.HasData())
	assert.Equal(t, 2, result.FilesMerged)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []domain.FinalRow{
		{Date: "05/09/2025", Time: "09:00 AM", Team: "Cross Country", Meet: "Invitational", Location: "TBA", Distance: "42"},
		{Date: "06/09/2025", Time: "05:00 PM", Team: "Volleyball", Opponent: "Rivals", Location: "Home", Distance: "0"},
	}, result.Schedule)
	assert.Equal(t, []domain.SummaryRow{
		{Date: "05/09/2025", MatchCount: 1},
		{Date: "06/09/2025", MatchCount: 1},
	}, result.Summary.Rows)
}

func TestMerger_Merge_SkipsFiles(t *testing.T) {
	reader := &stubReader{
		tables: map[string]*RawTable{
			"Tennis.xlsx":   {Headers: []string{"Date", "Opponent"}, Rows: []RawRow{{"05/09/2025", "Rivals"}}},
			"Roster.xlsx":   {Headers: []string{"Name", "Number"}, Rows: []RawRow{{"Sam", "7"}}},
			"Swimming.xlsx": {Headers: []string{"Date"}, Rows: []RawRow{{"06/09/2025"}}},
		},
		errs:   map[string]error{"Broken.xlsx": errors.New("zip: not a valid zip file")},
		panics: map[string]bool{"Panics.xlsx": true},
	}
	merger := NewMerger(reader, nil)

	result := merger.Merge(context.Background(), []SourceFile{
		{Name: "Tennis.xlsx"},
		{Name: "Roster.xlsx"},
		{Name: "Broken.xlsx"},
		{Name: "Panics.xlsx"},
		{Name: "Swimming.xlsx"},
	})

	require.True(t, result.HasData())
	assert.Equal(t, 2, result.FilesMerged)
	require.Len(t, result.Schedule, 2)
	assert.Equal(t, "Tennis", result.Schedule[0].Team)
	assert.Equal(t, "Swimming", result.Schedule[1].Team)

	require.Len(t, result.Warnings, 3)
	assert.Equal(t, domain.FileWarning{
		File:    "Roster.xlsx",
		Kind:    domain.WarningMissingDate,
		Message: "Skipping file `Roster.xlsx` - missing a 'Date' column.",
	}, result.Warnings[0])
	assert.Equal(t, domain.FileWarning{
		File:    "Broken.xlsx",
		Kind:    domain.WarningUnreadable,
		Message: "Error processing `Broken.xlsx`: zip: not a valid zip file",
	}, result.Warnings[1])
	assert.Equal(t, domain.WarningUnreadable, result.Warnings[2].Kind)
	assert.Contains(t, result.Warnings[2].Message, "corrupt shared strings")
}

func TestMerger_Merge_NoData(t *testing.T) {
	tests := []struct {
		name  string
		files []SourceFile
	}{
		{name: "no files"},
		{name: "only invalid files", files: []SourceFile{csvFile("Roster.csv", "Name\nSam\n")}},
		{name: "only empty rows", files: []SourceFile{csvFile("Empty.csv", "Date,Time\n,\n")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewMerger(NewWorkbookReader(nil), nil).Merge(context.Background(), tt.files)

			assert.False(t, result.HasData())
			assert.NotNil(t, result.Schedule)
			assert.Empty(t, result.Summary.Rows)
			assert.Equal(t, 0.0, result.Summary.AverageMatchesPerDate())
		})
	}
}

func TestMerger_Merge_Ordering(t *testing.T) {
	reader := &stubReader{tables: map[string]*RawTable{
		"A.xlsx": {
			Headers: []string{"Date", "Time", "Opponent"},
			Rows: []RawRow{
				{"TBA", "7 PM", "undated"},
				{"05/09/2025", "TBA", "late"},
				{"05/09/2025", "6:00 PM", "evening"},
				{"7/12-7/14/2025", "", "range"},
				{"05/09/2025", "Noon", "free text"},
			},
		},
		"B.xlsx": {
			Headers: []string{"Dates", "Times", "Opponents"},
			Rows: []RawRow{
				{"2025-09-05 00:00:00", "18:00", "same slot"},
				{"later", "", "unparseable"},
			},
		},
	}}

	result := NewMerger(reader, nil).Merge(context.Background(), []SourceFile{{Name: "A.xlsx"}, {Name: "B.xlsx"}})

	var got [][2]string
	for _, row := range result.Schedule {
		got = append(got, [2]string{row.Date, row.Opponent})
	}
	assert.Equal(t, [][2]string{
		{"7/12-7/14/2025", "range"},
		{"05/09/2025", "free text"},
		{"05/09/2025", "evening"},
		{"05/09/2025", "same slot"},
		{"05/09/2025", "late"},
		{"TBA", "undated"},
		{"later", "unparseable"},
	}, got)

	assert.Equal(t, []domain.SummaryRow{
		{Date: "7/12-7/14/2025", MatchCount: 1},
		{Date: "05/09/2025", MatchCount: 4},
		{Date: "TBA", MatchCount: 1},
		{Date: "later", MatchCount: 1},
	}, result.Summary.Rows)
	assert.Equal(t, 7, result.Summary.TotalMatches)
	assert.Equal(t, 4, result.Summary.DistinctDates)
}

func TestSortRows_Stable(t *testing.T) {
	key := NormalizeDate("05/09/2025")
	_, tk := NormalizeTime("7 PM")
	rows := []CanonicalRow{
		{Seq: 0, SortDate: key, SortTime: tk},
		{Seq: 1, SortDate: Unparseable, SortTime: tk},
		{Seq: 2, SortDate: key, SortTime: tk},
		{Seq: 3, SortDate: key, SortTime: tk},
	}

	SortRows(rows)

	var seqs []int
	for _, r := range rows {
		seqs = append(seqs, r.Seq)
	}
	assert.Equal(t, []int{0, 2, 3, 1}, seqs)
}

func TestTeamName(t *testing.T) {
	tests := map[string]string{
		"Volleyball.xlsx":           "Volleyball",
		"Men's Soccer 2025.xlsx":    "Men's Soccer 2025",
		"schedules/Golf.csv":        "Golf",
		`C:\Users\coach\Track.xlsx`: "Track",
		"archive.backup.xlsx":       "archive.backup",
		"NoExtension":               "NoExtension",
	}
	for in, want := range tests {
		assert.Equal(t, want, TeamName(in), in)
	}
}
