package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"macuschedule/internal/config"
	"macuschedule/internal/dataprocessing"
	apierrors "macuschedule/internal/errors"
	appmiddleware "macuschedule/internal/middleware"
	"macuschedule/internal/services"
	api "macuschedule/pkg/contracts/api/v1"
	"macuschedule/pkg/contracts/domain"
)

const (
	// UploadField is the multipart field carrying schedule files
	UploadField = "files"

	multipartMemory = 32 << 20
)

// ScheduleHandler handles schedule upload requests with RFC 7807 errors
type ScheduleHandler struct {
	service      ScheduleServiceInterface
	upload       config.UploadConfig
	validator    *appmiddleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(service ScheduleServiceInterface, upload config.UploadConfig, validator *appmiddleware.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ScheduleHandler {
	return &ScheduleHandler{
		service:      service,
		upload:       upload,
		validator:    validator,
		logger:       logger.With(slog.String("component", "schedule_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the schedule routes
func (h *ScheduleHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(h.validator.ContentTypeValidator("multipart/form-data"))

	r.Post("/merge", h.Merge)
	r.Post("/export", h.Export)

	return r
}

// Merge handles POST /api/schedules/merge
func (h *ScheduleHandler) Merge(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	files, err := h.readUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "merging schedules",
		slog.String("request_id", reqID),
		slog.Int("files", len(files)),
	)

	result, err := h.service.Merge(r.Context(), files)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err, result))
		return
	}

	render.JSON(w, r, api.MergeResponse{
		Status: api.StatusSuccess,
		Data: api.ScheduleData{
			Schedule: result.Schedule,
			Summary:  result.Summary,
			Stats:    statsOf(len(files), result),
		},
		Warnings: result.Warnings,
		Count:    len(result.Schedule),
	})
}

// Export handles POST /api/schedules/export?format=xlsx|csv&table=schedule|summary
func (h *ScheduleHandler) Export(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	query := api.ExportRequest{Format: services.FormatXLSX, Table: services.TableSchedule}
	if err := h.validator.ValidateQuery(r, &query); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	files, err := h.readUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	file, result, err := h.service.Export(r.Context(), files, query.Format, query.Table)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err, result))
		return
	}

	h.logger.InfoContext(r.Context(), "sending export",
		slog.String("request_id", reqID),
		slog.String("filename", file.Filename),
		slog.Int("bytes", len(file.Data)),
		slog.Int("skipped_files", len(result.Warnings)),
	)

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Header().Set("X-Skipped-Files", strconv.Itoa(len(result.Warnings)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("request_id", reqID),
			slog.String("error", err.Error()))
	}
}

// readUpload parses the multipart body and loads every file part. The
// file count is checked before any content is read.
func (h *ScheduleHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]dataprocessing.SourceFile, error) {
	limit := h.upload.MaxRequestBytes()
	if r.ContentLength > limit {
		return nil, &http.MaxBytesError{Limit: limit}
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, apierrors.InvalidRequestWithError(err)
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[UploadField]
	if len(headers) == 0 {
		return nil, apierrors.ErrNoFiles
	}
	if len(headers) > h.upload.MaxFiles {
		return nil, apierrors.TooManyFilesError(len(headers), h.upload.MaxFiles)
	}

	files := make([]dataprocessing.SourceFile, 0, len(headers))
	for _, fh := range headers {
		if !h.upload.IsAllowed(fh.Filename) {
			return nil, apierrors.UnsupportedFileError(fh.Filename)
		}
		if fh.Size > h.upload.MaxFileBytes {
			return nil, fileTooLarge(fh.Filename, h.upload.MaxFileBytes)
		}
		content, err := readPart(fh)
		if err != nil {
			return nil, apierrors.NewParsingError(fmt.Sprintf("could not read %s", fh.Filename), err)
		}
		files = append(files, dataprocessing.SourceFile{Name: fh.Filename, Content: content})
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// mapServiceError converts service errors to API errors
func (h *ScheduleHandler) mapServiceError(err error, result *dataprocessing.MergeResult) error {
	var uploadErr *services.UploadError
	switch {
	case errors.Is(err, services.ErrNoScheduleData):
		warnings := []domain.FileWarning{}
		if result != nil {
			warnings = result.Warnings
		}
		return apierrors.ErrNoScheduleData.WithDetails(map[string]interface{}{"warnings": warnings})
	case errors.Is(err, services.ErrNoFiles):
		return apierrors.ErrNoFiles
	case errors.As(err, &uploadErr) && errors.Is(err, services.ErrTooManyFiles):
		return apierrors.TooManyFilesError(int(uploadErr.Got), int(uploadErr.Limit))
	case errors.As(err, &uploadErr) && errors.Is(err, services.ErrUnsupportedFile):
		return apierrors.UnsupportedFileError(uploadErr.File)
	case errors.As(err, &uploadErr) && errors.Is(err, services.ErrFileTooLarge):
		return fileTooLarge(uploadErr.File, uploadErr.Limit)
	case errors.Is(err, services.ErrUnsupportedFormat):
		return apierrors.ErrValidation("format", err.Error())
	case errors.Is(err, services.ErrUnknownTable):
		return apierrors.ErrValidation("table", err.Error())
	}
	return apierrors.ErrExportFailed
}

func fileTooLarge(name string, limit int64) error {
	return apierrors.ErrPayloadTooLarge.WithDetails(map[string]interface{}{
		"file":      name,
		"max_bytes": limit,
	})
}

func statsOf(received int, result *dataprocessing.MergeResult) api.MergeStats {
	return api.MergeStats{
		FilesReceived: received,
		FilesMerged:   result.FilesMerged,
		FilesSkipped:  len(result.Warnings),
		Rows:          len(result.Schedule),
		DistinctDates: result.Summary.DistinctDates,
	}
}
