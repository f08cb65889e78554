package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"macuschedule/internal/config"
	"macuschedule/internal/dataprocessing"
	apierrors "macuschedule/internal/errors"
	appmiddleware "macuschedule/internal/middleware"
	"macuschedule/internal/services"
	"macuschedule/internal/shared/testutil"
	"macuschedule/pkg/contracts/domain"
)

// MockScheduleService is a mock implementation of ScheduleServiceInterface
type MockScheduleService struct {
	mock.Mock
}

func (m *MockScheduleService) Merge(ctx context.Context, files []dataprocessing.SourceFile) (*dataprocessing.MergeResult, error) {
	args := m.Called(files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dataprocessing.MergeResult), args.Error(1)
}

func (m *MockScheduleService) Export(ctx context.Context, files []dataprocessing.SourceFile, format, table string) (*services.ExportFile, *dataprocessing.MergeResult, error) {
	args := m.Called(files, format, table)
	var file *services.ExportFile
	if f := args.Get(0); f != nil {
		file = f.(*services.ExportFile)
	}
	var result *dataprocessing.MergeResult
	if r := args.Get(1); r != nil {
		result = r.(*dataprocessing.MergeResult)
	}
	return file, result, args.Error(2)
}

type uploadPart struct {
	name    string
	content string
}

func multipartBody(t *testing.T, parts ...uploadPart) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, p := range parts {
		fw, err := mw.CreateFormFile(UploadField, p.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(p.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{
		MaxFiles:          2,
		MaxFileBytes:      64,
		AllowedExtensions: []string{".xlsx", ".xlsm", ".csv"},
	}
}

func newTestRouter(t *testing.T, service ScheduleServiceInterface) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	validator := appmiddleware.NewValidationMiddleware(logger, errorHandler)
	handler := NewScheduleHandler(service, testUploadConfig(), validator, logger, errorHandler)

	r := chi.NewRouter()
	r.Mount("/api/schedules", handler.Routes())
	return r
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func sampleResult() *dataprocessing.MergeResult {
	schedule := []domain.FinalRow{
		{Date: "05/09/2025", Time: "07:00 PM", Team: "Soccer", Opponent: "Rivals", Location: "Home", Distance: "0"},
	}
	return &dataprocessing.MergeResult{
		Schedule:    schedule,
		Summary:     dataprocessing.Summarize(schedule),
		Warnings:    []domain.FileWarning{{File: "roster.csv", Kind: domain.WarningMissingDate, Message: "Skipping file `roster.csv` - missing a 'Date' column."}},
		FilesMerged: 1,
	}
}

func TestScheduleHandler_Merge(t *testing.T) {
	service := new(MockScheduleService)
	files := []dataprocessing.SourceFile{
		{Name: "Soccer.csv", Content: []byte("Date\n5/9/2025\n")},
		{Name: "roster.csv", Content: []byte("Name\nSam\n")},
	}
	service.On("Merge", files).Return(sampleResult(), nil)

	body, contentType := multipartBody(t, uploadPart{"Soccer.csv", "Date\n5/9/2025\n"}, uploadPart{"roster.csv", "Name\nSam\n"})
	req := httptest.NewRequest(http.MethodPost, "/api/schedules/merge", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestRouter(t, service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, float64(1), resp["count"])

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{
		"files_received": float64(2),
		"files_merged":   float64(1),
		"files_skipped":  float64(1),
		"rows":           float64(1),
		"distinct_dates": float64(1),
	}, data["stats"])
	row := data["schedule"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Soccer", row["macu_team"])
	assert.Len(t, resp["warnings"], 1)
	service.AssertExpectations(t)
}

func TestScheduleHandler_MergeErrors(t *testing.T) {
	noData := &dataprocessing.MergeResult{
		Schedule: []domain.FinalRow{},
		Warnings: []domain.FileWarning{{File: "a.csv", Kind: domain.WarningMissingDate, Message: "Skipping file `a.csv` - missing a 'Date' column."}},
	}

	tests := []struct {
		name       string
		parts      []uploadPart
		setupMock  func(*MockScheduleService)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "no files",
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeNoFiles,
		},
		{
			name:       "too many files",
			parts:      []uploadPart{{"a.csv", "x"}, {"b.csv", "x"}, {"c.csv", "x"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeTooManyFiles,
		},
		{
			name:       "unsupported extension",
			parts:      []uploadPart{{"schedule.pdf", "x"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeUnsupportedFile,
		},
		{
			name:       "file over limit",
			parts:      []uploadPart{{"a.csv", strings.Repeat("x", 65)}},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   apierrors.CodePayloadTooLarge,
		},
		{
			name:  "no schedule data",
			parts: []uploadPart{{"a.csv", "Name\nSam\n"}},
			setupMock: func(m *MockScheduleService) {
				m.On("Merge", mock.Anything).Return(noData, services.ErrNoScheduleData)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apierrors.CodeNoScheduleData,
		},
		{
			name:  "unexpected service failure",
			parts: []uploadPart{{"a.csv", "Date\n1/1/2025\n"}},
			setupMock: func(m *MockScheduleService) {
				m.On("Merge", mock.Anything).Return(nil, errors.New("disk on fire"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apierrors.CodeExportFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockScheduleService)
			if tt.setupMock != nil {
				tt.setupMock(service)
			}

			body, contentType := multipartBody(t, tt.parts...)
			req := httptest.NewRequest(http.MethodPost, "/api/schedules/merge", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			newTestRouter(t, service).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			resp := decodeJSON(t, rec)
			assert.Equal(t, tt.wantCode, resp["error_code"])
			assert.NotContains(t, rec.Body.String(), "disk on fire")
			service.AssertExpectations(t)
		})
	}
}

func TestScheduleHandler_NoDataCarriesWarnings(t *testing.T) {
	service := new(MockScheduleService)
	service.On("Merge", mock.Anything).Return(&dataprocessing.MergeResult{
		Schedule: []domain.FinalRow{},
		Warnings: []domain.FileWarning{{File: "a.csv", Kind: domain.WarningUnreadable, Message: "Error processing `a.csv`: bad"}},
	}, services.ErrNoScheduleData)

	body, contentType := multipartBody(t, uploadPart{"a.csv", "?"})
	req := httptest.NewRequest(http.MethodPost, "/api/schedules/merge", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestRouter(t, service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Equal(t, apierrors.TypeNoScheduleData, resp["type"])
	assert.Equal(t, apierrors.CodeNoScheduleData, resp["error_code"])
	assert.Equal(t, "No data to process. Please check your files.", resp["detail"])
	warnings := resp["details"].(map[string]interface{})["warnings"].([]interface{})
	require.Len(t, warnings, 1)
	assert.Equal(t, "Error processing `a.csv`: bad", warnings[0].(map[string]interface{})["message"])
}

func TestScheduleHandler_RejectsNonMultipart(t *testing.T) {
	service := new(MockScheduleService)
	req := httptest.NewRequest(http.MethodPost, "/api/schedules/merge", strings.NewReader(`{"files":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newTestRouter(t, service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	service.AssertNotCalled(t, "Merge", mock.Anything)
}

func TestScheduleHandler_Export(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantFormat  string
		wantTable   string
		contentType string
		filename    string
	}{
		{"defaults to workbook", "", services.FormatXLSX, services.TableSchedule, services.ContentTypeXLSX, "combined_macu_schedule_20250905_1430.xlsx"},
		{"summary csv", "?format=csv&table=summary", services.FormatCSV, services.TableSummary, services.ContentTypeCSV, "combined_macu_schedule_summary_20250905_1430.csv"},
		{"case insensitive", "?format=CSV&table=Schedule", services.FormatCSV, services.TableSchedule, services.ContentTypeCSV, "combined_macu_schedule_schedule_20250905_1430.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockScheduleService)
			service.On("Export", mock.Anything, tt.wantFormat, tt.wantTable).Return(&services.ExportFile{
				Filename:    tt.filename,
				ContentType: tt.contentType,
				Data:        []byte("payload"),
			}, sampleResult(), nil)

			body, contentType := multipartBody(t, uploadPart{"Soccer.xlsx", "x"})
			req := httptest.NewRequest(http.MethodPost, "/api/schedules/export"+tt.query, body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			newTestRouter(t, service).ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, `attachment; filename="`+tt.filename+`"`, rec.Header().Get("Content-Disposition"))
			assert.Equal(t, "7", rec.Header().Get("Content-Length"))
			assert.Equal(t, "1", rec.Header().Get("X-Skipped-Files"))
			assert.Equal(t, "payload", rec.Body.String())
			service.AssertExpectations(t)
		})
	}
}

func TestScheduleHandler_ExportInvalidQuery(t *testing.T) {
	service := new(MockScheduleService)

	body, contentType := multipartBody(t, uploadPart{"Soccer.xlsx", "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/schedules/export?format=pdf", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestRouter(t, service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Equal(t, apierrors.CodeValidationFailed, resp["error_code"])
	assert.Contains(t, rec.Body.String(), "format")
	service.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduleHandler_ExportNoData(t *testing.T) {
	service := new(MockScheduleService)
	service.On("Export", mock.Anything, services.FormatXLSX, services.TableSchedule).
		Return(nil, &dataprocessing.MergeResult{Schedule: []domain.FinalRow{}, Warnings: []domain.FileWarning{}}, services.ErrNoScheduleData)

	body, contentType := multipartBody(t, uploadPart{"a.xlsx", "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/schedules/export", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestRouter(t, service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

func TestScheduleHandler_MapServiceError(t *testing.T) {
	h := &ScheduleHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"too many", &services.UploadError{Err: services.ErrTooManyFiles, Got: 9, Limit: 5}, http.StatusBadRequest, apierrors.CodeTooManyFiles, "Received 9 files, the limit is 5"},
		{"unsupported", &services.UploadError{Err: services.ErrUnsupportedFile, File: "x.doc"}, http.StatusBadRequest, apierrors.CodeUnsupportedFile, `File "x.doc" is not a supported schedule file`},
		{"too large", &services.UploadError{Err: services.ErrFileTooLarge, File: "a.csv", Got: 10, Limit: 5}, http.StatusRequestEntityTooLarge, apierrors.CodePayloadTooLarge, "Upload exceeds the maximum allowed size"},
		{"no files", services.ErrNoFiles, http.StatusBadRequest, apierrors.CodeNoFiles, "Upload at least one schedule file"},
		{"bad table", services.ErrUnknownTable, http.StatusBadRequest, apierrors.CodeValidationFailed, "Request validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var apiErr *apierrors.APIError
			require.ErrorAs(t, h.mapServiceError(tt.err, nil), &apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}
