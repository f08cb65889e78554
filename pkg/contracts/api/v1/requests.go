// Package api contains API contract definitions for the schedule combiner.
// Version v1 represents the current stable API version.
package api

// Schedule API Requests

// ExportRequest holds the query parameters of POST /api/schedules/export.
// Table only applies to csv; a workbook always carries both tables.
type ExportRequest struct {
	Format string `json:"format" query:"format" validate:"required,oneof=xlsx csv"`
	Table  string `json:"table" query:"table" validate:"required,oneof=schedule summary"`
}
