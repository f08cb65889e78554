package dataprocessing

import "macuschedule/pkg/contracts/domain"

// Summarize counts schedule rows per display date. Dates are compared as
// strings, so two spellings of one calendar day are separate groups, and
// groups keep the order in which each date first appears.
func Summarize(rows []domain.FinalRow) domain.MatchSummary {
	summary := domain.MatchSummary{Rows: []domain.SummaryRow{}}
	index := make(map[string]int)

	for _, row := range rows {
		i, ok := index[row.Date]
		if !ok {
			i = len(summary.Rows)
			index[row.Date] = i
			summary.Rows = append(summary.Rows, domain.SummaryRow{Date: row.Date})
		}
		summary.Rows[i].MatchCount++
	}

	summary.TotalMatches = len(rows)
	summary.DistinctDates = len(summary.Rows)
	return summary
}
