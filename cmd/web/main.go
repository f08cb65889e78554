// Command web serves the schedule combiner over HTTP: an upload page at /,
// the JSON and download API under /api/schedules, health checks and
// Prometheus metrics.
package main

import (
	"context"
	"log/slog"
	"os"

	"macuschedule/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		application.Logger.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
