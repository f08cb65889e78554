// Package services holds the business operations behind the HTTP handlers
// and the command line tool.
//
// ScheduleService validates uploads against the configured limits, runs the
// merge pipeline, records business metrics and renders results as an .xlsx
// workbook or a CSV table. An upload in which no file yields rows returns
// ErrNoScheduleData along with the merge result, so callers can still show
// the per-file warnings.
//
// HealthService answers health, readiness, liveness and version checks.
//
// Errors are sentinel values from errors.go, wrapped with context:
//
//	if errors.Is(err, services.ErrTooManyFiles) { ... }
package services
