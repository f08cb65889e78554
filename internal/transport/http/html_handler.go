package http

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"macuschedule/internal/config"
	"macuschedule/pkg/contracts/domain"
)

const (
	mergeEndpoint  = "/api/schedules/merge"
	exportEndpoint = "/api/schedules/export?format=xlsx&table=schedule"

	noDataMessage = "No valid schedule data could be extracted from the uploaded files."
)

var uploadPage = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; max-width: 960px; }
        .hint { color: #555; }
        .error { color: #b00020; }
        .warning { color: #8a6d00; }
        fieldset { border: 1px solid #ccc; border-radius: 4px; margin: 16px 0; padding: 12px; }
        button { padding: 8px 16px; margin-right: 8px; }
        table { border-collapse: collapse; margin: 12px 0 24px; width: 100%; }
        th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
        th { background: #f2f2f2; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <p>Upload multiple team schedule Excel files to combine them into a single, sorted master schedule.</p>
    <form id="upload" method="post" action="{{.MergeURL}}" enctype="multipart/form-data">
        <fieldset>
            <legend>Team schedules</legend>
            <input type="file" name="files" accept="{{.Accept}}" multiple required>
            <p class="hint">Up to {{.MaxFiles}} files ({{.Accept}}). Each file needs a Date column; the team name is taken from the file name.</p>
        </fieldset>
        <button type="submit" id="combine">Combine Schedules</button>
        <button type="submit" id="download" formaction="{{.ExportURL}}">Download Combined Schedule as Excel</button>
    </form>
    <div id="results" hidden>
        <p id="status"></p>
        <ul id="warnings"></ul>
        <div id="tables" hidden>
            <h2>Combined Schedule</h2>
            <table id="schedule"></table>
            <h2>Match Counts</h2>
            <table id="summary"></table>
        </div>
    </div>
    <p class="hint"><a href="/api/health">Health</a> · <a href="/api/version">Version</a></p>
    <script nonce="{{.Nonce}}">
    (function () {
        var form = document.getElementById("upload");
        var results = document.getElementById("results");
        var status = document.getElementById("status");
        var warnings = document.getElementById("warnings");
        var tables = document.getElementById("tables");
        var noData = {{.NoData}};
        var scheduleHeaders = {{.ScheduleHeaders}};
        var summaryHeaders = {{.SummaryHeaders}};

        function fill(table, headers, rows) {
            table.replaceChildren();
            var head = table.insertRow();
            headers.forEach(function (h) {
                var th = document.createElement("th");
                th.textContent = h;
                head.appendChild(th);
            });
            rows.forEach(function (row) {
                var tr = table.insertRow();
                row.forEach(function (v) { tr.insertCell().textContent = v; });
            });
        }

        function showWarnings(list) {
            warnings.replaceChildren();
            (list || []).forEach(function (w) {
                var li = document.createElement("li");
                li.className = "warning";
                li.textContent = w.file + ": " + w.message;
                warnings.appendChild(li);
            });
        }

        function showSchedule(data) {
            fill(document.getElementById("schedule"), scheduleHeaders,
                data.schedule.map(function (r) {
                    return [r.date, r.time, r.macu_team, r.opponent, r.meet, r.location, r.distance_from_macu_miles];
                }));
            fill(document.getElementById("summary"), summaryHeaders,
                data.summary.rows.map(function (r) { return [r.date, String(r.match_count)]; }));
            status.className = "";
            status.textContent = "Combined " + data.stats.rows + " matches from " + data.stats.files_merged +
                " of " + data.stats.files_received + " files across " + data.summary.distinct_dates + " dates.";
            tables.hidden = false;
        }

        function showError(problem) {
            tables.hidden = true;
            status.className = "error";
            if (problem.error_code === "NO_SCHEDULE_DATA") {
                status.textContent = noData;
                showWarnings(problem.details && problem.details.warnings);
                return;
            }
            status.textContent = problem.detail || problem.title || "Request failed.";
        }

        form.addEventListener("submit", function (event) {
            if (event.submitter && event.submitter.id === "download") {
                return;
            }
            event.preventDefault();
            results.hidden = false;
            status.className = "";
            status.textContent = "Combining...";
            warnings.replaceChildren();
            fetch(form.action, { method: "POST", body: new FormData(form) })
                .then(function (resp) {
                    return resp.json().then(function (body) { return { ok: resp.ok, body: body }; });
                })
                .then(function (res) {
                    if (!res.ok) {
                        showError(res.body);
                        return;
                    }
                    showWarnings(res.body.warnings);
                    showSchedule(res.body.data);
                })
                .catch(function () {
                    showError({ detail: "Could not reach the server." });
                });
        });
    })();
    </script>
</body>
</html>
`))

type uploadPageData struct {
	Title     string
	Accept    string
	MaxFiles  int
	MergeURL  string
	ExportURL string
	NoData    string
	Nonce     string

	ScheduleHeaders []string
	SummaryHeaders  []string
}

// ServeUploadPage serves the upload form. Submitting it merges through the
// merge endpoint and shows the combined schedule and match counts in place;
// the download button posts the same files to the export endpoint.
func ServeUploadPage(upload config.UploadConfig, logger *slog.Logger) http.HandlerFunc {
	base := uploadPageData{
		Title:     "MACU Athletics Schedule Combiner",
		Accept:    strings.Join(upload.AllowedExtensions, ","),
		MaxFiles:  upload.MaxFiles,
		MergeURL:  mergeEndpoint,
		ExportURL: exportEndpoint,
		NoData:    noDataMessage,

		ScheduleHeaders: domain.ScheduleHeaders(),
		SummaryHeaders:  domain.SummaryHeaders(),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		data := base
		data.Nonce = uuid.NewString()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Security-Policy", fmt.Sprintf(
			"default-src 'none'; style-src 'unsafe-inline'; script-src 'nonce-%s'; connect-src 'self'; form-action 'self'; frame-ancestors 'none'",
			data.Nonce))
		if err := uploadPage.Execute(w, data); err != nil {
			logger.ErrorContext(r.Context(), "Error rendering page", slog.String("error", err.Error()))
		}
	}
}
