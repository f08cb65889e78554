package http

import (
	"context"

	"macuschedule/internal/dataprocessing"
	"macuschedule/internal/services"
)

// ScheduleServiceInterface defines the schedule operations used by the handlers
type ScheduleServiceInterface interface {
	Merge(ctx context.Context, files []dataprocessing.SourceFile) (*dataprocessing.MergeResult, error)
	Export(ctx context.Context, files []dataprocessing.SourceFile, format, table string) (*services.ExportFile, *dataprocessing.MergeResult, error)
}
