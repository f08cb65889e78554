// Package http implements the HTTP handlers of the schedule combiner web
// service. Handlers are thin: they parse the upload, call the schedule
// service and translate its errors into RFC 7807 problems.
//
// # Routes
//
//	GET  /                          upload form
//	POST /api/schedules/merge       multipart "files" → JSON schedule and summary
//	POST /api/schedules/export      multipart "files" → xlsx or csv attachment
//	GET  /api/health                health, readiness and liveness
//	GET  /api/version               build information
//	GET  /metrics                   Prometheus scrape endpoint
//
// # Error Handling
//
// Every error response is a problem document:
//
//	{
//	    "type": "/errors/schedule/no-data",
//	    "title": "Unprocessable Entity",
//	    "status": 422,
//	    "detail": "No data to process. Please check your files.",
//	    "instance": "/api/schedules/export",
//	    "error_code": "NO_SCHEDULE_DATA",
//	    "details": {"warnings": [...]}
//	}
//
// Upload limit violations answer 400 (count, extension) or 413 (size).
//
// # Testing
//
// Handlers are tested with httptest and a mock ScheduleServiceInterface.
package http
