package api

import (
	"macuschedule/pkg/contracts/domain"
)

// StatusSuccess is the status of every successful JSON response
const StatusSuccess = "success"

// MergeResponse is the body of POST /api/schedules/merge
type MergeResponse struct {
	Status   string               `json:"status"`
	Data     ScheduleData         `json:"data"`
	Warnings []domain.FileWarning `json:"warnings"`
	Count    int                  `json:"count"`
}

// ScheduleData holds the combined schedule and its per-date counts
type ScheduleData struct {
	Schedule []domain.FinalRow   `json:"schedule"`
	Summary  domain.MatchSummary `json:"summary"`
	Stats    MergeStats          `json:"stats"`
}

// MergeStats summarizes one merge
type MergeStats struct {
	FilesReceived int `json:"files_received"`
	FilesMerged   int `json:"files_merged"`
	FilesSkipped  int `json:"files_skipped"`
	Rows          int `json:"rows"`
	DistinctDates int `json:"distinct_dates"`
}
