package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"macuschedule/pkg/contracts/domain"
)

// TracerName identifies spans emitted by this package
const TracerName = "macuschedule/dataprocessing"

// Merger combines team schedule files into one sorted schedule. Files are
// processed one after another; a file that fails is reported as a warning
// and never affects the others.
type Merger struct {
	reader TableReader
	logger *slog.Logger
	tracer trace.Tracer
}

// NewMerger creates a merger reading files through reader
func NewMerger(reader TableReader, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{
		reader: reader,
		logger: logger.With(slog.String("component", "schedule_merger")),
		tracer: otel.Tracer(TracerName),
	}
}

// Merge reads every file, keeps the rows of files with a date column, and
// returns them sorted by (date, time) with display values and the per-date
// summary. Ties keep file order, then row order.
func (m *Merger) Merge(ctx context.Context, files []SourceFile) *MergeResult {
	result := &MergeResult{
		Schedule: []domain.FinalRow{},
		Warnings: []domain.FileWarning{},
	}

	var rows []CanonicalRow
	for _, file := range files {
		fileRows, warning := m.processFile(ctx, file, len(rows))
		if warning != nil {
			m.logger.WarnContext(ctx, "Skipping file",
				slog.String("file", file.Name),
				slog.String("reason", string(warning.Kind)),
				slog.String("message", warning.Message))
			result.Warnings = append(result.Warnings, *warning)
			continue
		}
		result.FilesMerged++
		rows = append(rows, fileRows...)
	}

	SortRows(rows)
	result.Schedule = Project(rows)
	result.Summary = Summarize(result.Schedule)

	m.logger.InfoContext(ctx, "Merged schedules",
		slog.Int("files", len(files)),
		slog.Int("files_merged", result.FilesMerged),
		slog.Int("rows", len(result.Schedule)),
		slog.Int("distinct_dates", result.Summary.DistinctDates))

	return result
}

func (m *Merger) processFile(ctx context.Context, file SourceFile, offset int) (rows []CanonicalRow, warning *domain.FileWarning) {
	ctx, span := m.tracer.Start(ctx, "dataprocessing.process_file",
		trace.WithAttributes(attribute.String("file.name", file.Name)))
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			rows = nil
			warning = unreadableWarning(file.Name, fmt.Errorf("%v", rec))
			span.SetStatus(codes.Error, warning.Message)
		}
	}()

	table, err := m.reader.ReadTable(file.Name, file.Content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unreadable file")
		return nil, unreadableWarning(file.Name, err)
	}

	mapping := ResolveColumns(table.Headers)
	if !mapping.Has(FieldDate) {
		span.SetStatus(codes.Error, "missing date column")
		return nil, &domain.FileWarning{
			File:    file.Name,
			Kind:    domain.WarningMissingDate,
			Message: fmt.Sprintf("Skipping file `%s` - missing a 'Date' column.", file.Name),
		}
	}

	team := TeamName(file.Name)
	for _, raw := range table.Rows {
		if raw.IsEmpty() {
			continue
		}
		rows = append(rows, newCanonicalRow(raw, mapping, team, offset+len(rows)))
	}

	m.logger.DebugContext(ctx, "Processed file",
		slog.String("file", file.Name),
		slog.String("team", team),
		slog.String("date_column", mapping[FieldDate].Header),
		slog.Int("rows", len(rows)))
	span.SetAttributes(attribute.Int("file.rows", len(rows)))

	return rows, nil
}

func unreadableWarning(name string, err error) *domain.FileWarning {
	return &domain.FileWarning{
		File:    name,
		Kind:    domain.WarningUnreadable,
		Message: fmt.Sprintf("Error processing `%s`: %v", name, err),
	}
}

func newCanonicalRow(raw RawRow, mapping ColumnMapping, team string, seq int) CanonicalRow {
	date := mapping.Value(raw, FieldDate)
	rawTime := mapping.Value(raw, FieldTime)
	displayTime, timeKey := NormalizeTime(rawTime)

	return CanonicalRow{
		Date:        date,
		Time:        rawTime,
		Opponent:    mapping.Value(raw, FieldOpponent),
		Meet:        mapping.Value(raw, FieldMeet),
		Location:    mapping.Value(raw, FieldLocation),
		Distance:    mapping.Value(raw, FieldDistance),
		SourceTeam:  team,
		DisplayDate: date,
		DisplayTime: displayTime,
		SortDate:    NormalizeDate(date),
		SortTime:    timeKey,
		Seq:         seq,
	}
}

// TeamName derives a team label from a file name: the base name with its
// last extension removed. Both / and \ are treated as path separators.
func TeamName(fileName string) string {
	base := fileName
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}

// SortRows orders rows by date key then time key, keeping input order on ties
func SortRows(rows []CanonicalRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].SortDate.Compare(rows[j].SortDate); c != 0 {
			return c < 0
		}
		return rows[i].SortTime.Compare(rows[j].SortTime) < 0
	})
}

// Project converts sorted rows into output rows, filling placeholders for
// blank location and distance cells
func Project(rows []CanonicalRow) []domain.FinalRow {
	out := make([]domain.FinalRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.FinalRow{
			Date:     FormatDisplayDate(r),
			Time:     r.DisplayTime,
			Team:     r.SourceTeam,
			Opponent: r.Opponent,
			Meet:     r.Meet,
			Location: orDefault(r.Location, domain.PlaceholderTBA),
			Distance: orDefault(r.Distance, domain.PlaceholderDistance),
		})
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
