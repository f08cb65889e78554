package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"macuschedule/internal/config"
	"macuschedule/internal/dataprocessing"
	"macuschedule/internal/exporter"
	"macuschedule/internal/infrastructure"
)

// Export formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Export tables. A workbook always carries both; a CSV file carries one.
const (
	TableSchedule = "schedule"
	TableSummary  = "summary"
)

// Content types of exported files
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// Merge outcomes recorded in metrics
const (
	outcomeSuccess  = "success"
	outcomeNoData   = "no_data"
	outcomeRejected = "rejected"
)

// Merger combines schedule files
type Merger interface {
	Merge(ctx context.Context, files []dataprocessing.SourceFile) *dataprocessing.MergeResult
}

// ExportFile is a rendered download
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ScheduleService merges uploaded schedules and renders them for download.
// It enforces upload limits and turns an empty merge into ErrNoScheduleData.
type ScheduleService struct {
	merger   Merger
	workbook *exporter.WorkbookExporter
	csv      *exporter.CSVWriter
	upload   config.UploadConfig
	export   config.ExportConfig
	metrics  *infrastructure.BusinessMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
	now      func() time.Time
}

// NewScheduleService creates a service reading spreadsheets with the
// default workbook reader. metrics may be nil.
func NewScheduleService(cfg *config.Config, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ScheduleService {
	if logger == nil {
		logger = slog.Default()
	}
	merger := dataprocessing.NewMerger(dataprocessing.NewWorkbookReader(logger), logger)
	return NewScheduleServiceWithMerger(cfg, merger, metrics, logger)
}

// NewScheduleServiceWithMerger creates a service around a custom merger
func NewScheduleServiceWithMerger(cfg *config.Config, merger Merger, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ScheduleService {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("ScheduleService initialized",
		slog.Int("max_files", cfg.Upload.MaxFiles),
		slog.Int64("max_file_bytes", cfg.Upload.MaxFileBytes),
		slog.Any("allowed_extensions", cfg.Upload.AllowedExtensions),
		slog.String("schedule_sheet", cfg.Export.ScheduleSheet),
		slog.String("summary_sheet", cfg.Export.SummarySheet))

	return &ScheduleService{
		merger:   merger,
		workbook: exporter.NewWorkbookExporter(cfg.Export.ScheduleSheet, cfg.Export.SummarySheet, logger),
		csv:      exporter.NewCSVWriter(cfg.Export.OutputDir),
		upload:   cfg.Upload,
		export:   cfg.Export,
		metrics:  metrics,
		tracer:   otel.Tracer("macuschedule/services"),
		logger:   logger.With(slog.String("component", "schedule_service")),
		now:      time.Now,
	}
}

// ValidateUpload checks file count, names and sizes against the upload
// limits. Errors are ErrNoFiles or an *UploadError wrapping
// ErrTooManyFiles, ErrUnsupportedFile or ErrFileTooLarge.
func (s *ScheduleService) ValidateUpload(files []dataprocessing.SourceFile) error {
	if len(files) == 0 {
		return ErrNoFiles
	}
	if len(files) > s.upload.MaxFiles {
		return &UploadError{Err: ErrTooManyFiles, Got: int64(len(files)), Limit: int64(s.upload.MaxFiles)}
	}
	for _, f := range files {
		if !s.upload.IsAllowed(f.Name) {
			return &UploadError{Err: ErrUnsupportedFile, File: f.Name}
		}
		if int64(len(f.Content)) > s.upload.MaxFileBytes {
			return &UploadError{Err: ErrFileTooLarge, File: f.Name, Got: int64(len(f.Content)), Limit: s.upload.MaxFileBytes}
		}
	}
	return nil
}

// Merge combines files into one schedule. When no file yields rows the
// result is still returned, carrying the per-file warnings, together with
// ErrNoScheduleData.
func (s *ScheduleService) Merge(ctx context.Context, files []dataprocessing.SourceFile) (*dataprocessing.MergeResult, error) {
	ctx, span := s.tracer.Start(ctx, "schedule.merge",
		trace.WithAttributes(attribute.Int("files.count", len(files))))
	defer span.End()

	start := time.Now()

	if err := s.ValidateUpload(files); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload rejected")
		infrastructure.RecordMergeMetrics(ctx, s.metrics, infrastructure.MergeObservation{
			Outcome:  outcomeRejected,
			Duration: time.Since(start),
		})
		s.logger.WarnContext(ctx, "Upload rejected",
			slog.Int("files", len(files)),
			slog.String("error", err.Error()))
		return nil, err
	}

	result := s.merger.Merge(ctx, files)

	obs := infrastructure.MergeObservation{
		Outcome:         outcomeSuccess,
		FilesMerged:     result.FilesMerged,
		SkippedByReason: make(map[string]int),
		Rows:            len(result.Schedule),
		Duration:        time.Since(start),
	}
	for _, w := range result.Warnings {
		obs.SkippedByReason[string(w.Kind)]++
	}

	span.SetAttributes(
		attribute.Int("files.merged", result.FilesMerged),
		attribute.Int("files.skipped", len(result.Warnings)),
		attribute.Int("rows", len(result.Schedule)),
	)

	if !result.HasData() {
		obs.Outcome = outcomeNoData
		infrastructure.RecordMergeMetrics(ctx, s.metrics, obs)
		span.SetStatus(codes.Error, ErrNoScheduleData.Error())
		s.logger.WarnContext(ctx, "No data to process",
			slog.Int("files", len(files)),
			slog.Int("warnings", len(result.Warnings)))
		return result, ErrNoScheduleData
	}

	infrastructure.RecordMergeMetrics(ctx, s.metrics, obs)
	return result, nil
}

// Export merges files and renders the result in the requested format.
// On ErrNoScheduleData the merge result is returned for its warnings.
func (s *ScheduleService) Export(ctx context.Context, files []dataprocessing.SourceFile, format, table string) (*ExportFile, *dataprocessing.MergeResult, error) {
	if err := checkExportRequest(format, table); err != nil {
		return nil, nil, err
	}

	result, err := s.Merge(ctx, files)
	if err != nil {
		return nil, result, err
	}

	file, err := s.Render(ctx, result, format, table)
	if err != nil {
		return nil, result, err
	}
	return file, result, nil
}

// Render serializes a merge result. xlsx produces the two-sheet workbook
// and ignores table; csv produces the single named table.
func (s *ScheduleService) Render(ctx context.Context, result *dataprocessing.MergeResult, format, table string) (*ExportFile, error) {
	if err := checkExportRequest(format, table); err != nil {
		return nil, err
	}
	if !result.HasData() {
		return nil, ErrNoScheduleData
	}

	_, span := s.tracer.Start(ctx, "schedule.render",
		trace.WithAttributes(
			attribute.String("export.format", format),
			attribute.String("export.table", table),
		))
	defer span.End()

	var (
		file *ExportFile
		err  error
	)
	switch format {
	case FormatXLSX:
		file, err = s.renderWorkbook(result)
		table = "all"
	case FormatCSV:
		file, err = s.renderCSV(result, table)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, err
	}

	infrastructure.RecordExportMetrics(ctx, s.metrics, format, table, len(file.Data))
	s.logger.InfoContext(ctx, "Rendered export",
		slog.String("format", format),
		slog.String("table", table),
		slog.String("filename", file.Filename),
		slog.Int("bytes", len(file.Data)))

	return file, nil
}

// Save writes a merge result to disk and returns the path written. An
// empty path means a timestamped name inside the configured output
// directory; an explicit path is used as given.
func (s *ScheduleService) Save(ctx context.Context, result *dataprocessing.MergeResult, format, table, path string) (string, error) {
	if err := checkExportRequest(format, table); err != nil {
		return "", err
	}
	if !result.HasData() {
		return "", ErrNoScheduleData
	}

	if path == "" {
		name := s.export.FilenamePrefix
		if format == FormatCSV {
			name += "_" + table
		}
		path = filepath.Join(s.export.OutputDir, exporter.ExportFilename(name, s.now(), format))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	switch format {
	case FormatXLSX:
		if err := s.workbook.WriteFile(abs, result.Schedule, result.Summary); err != nil {
			return "", err
		}
	case FormatCSV:
		t := exporter.ScheduleTable(s.export.ScheduleSheet, result.Schedule)
		if table == TableSummary {
			t = exporter.SummaryTable(s.export.SummarySheet, result.Summary)
		}
		if _, err := s.csv.WriteCSV(abs, exporter.TableOptions(t)); err != nil {
			return "", err
		}
	}

	if info, err := os.Stat(abs); err == nil {
		infrastructure.RecordExportMetrics(ctx, s.metrics, format, table, int(info.Size()))
	}
	s.logger.InfoContext(ctx, "Saved export",
		slog.String("format", format),
		slog.String("table", table),
		slog.String("path", abs))
	return abs, nil
}

func (s *ScheduleService) renderWorkbook(result *dataprocessing.MergeResult) (*ExportFile, error) {
	buf, err := s.workbook.Export(result.Schedule, result.Summary)
	if err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	return &ExportFile{
		Filename:    exporter.ExportFilename(s.export.FilenamePrefix, s.now(), FormatXLSX),
		ContentType: ContentTypeXLSX,
		Data:        buf.Bytes(),
	}, nil
}

func (s *ScheduleService) renderCSV(result *dataprocessing.MergeResult, table string) (*ExportFile, error) {
	var t exporter.Table
	if table == TableSummary {
		t = exporter.SummaryTable(s.export.SummarySheet, result.Summary)
	} else {
		t = exporter.ScheduleTable(s.export.ScheduleSheet, result.Schedule)
	}

	var buf bytes.Buffer
	if err := s.csv.Write(&buf, exporter.TableOptions(t)); err != nil {
		return nil, fmt.Errorf("failed to write %s CSV: %w", table, err)
	}
	return &ExportFile{
		Filename:    exporter.ExportFilename(s.export.FilenamePrefix+"_"+table, s.now(), FormatCSV),
		ContentType: ContentTypeCSV,
		Data:        buf.Bytes(),
	}, nil
}

func checkExportRequest(format, table string) error {
	switch format {
	case FormatXLSX, FormatCSV:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	switch table {
	case TableSchedule, TableSummary:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return nil
}
