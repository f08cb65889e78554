package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"macuschedule/internal/infrastructure"
)

type otelFixture struct {
	reader   *sdkmetric.ManualReader
	spans    *tracetest.InMemoryExporter
	mw       *OTelMiddleware
	shutdown func()
}

func newOTelFixture(t *testing.T) *otelFixture {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	spans := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spans))

	providers := &infrastructure.OTelProviders{
		Tracer: tp.Tracer("test"),
		Meter:  mp.Meter("test"),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	mw, err := NewOTelMiddleware(providers, nil)
	require.NoError(t, err)

	return &otelFixture{
		reader: reader,
		spans:  spans,
		mw:     mw,
		shutdown: func() {
			_ = tp.Shutdown(context.Background())
			_ = mp.Shutdown(context.Background())
		},
	}
}

func (f *otelFixture) requestCounts(t *testing.T) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_requests_total" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				route, _ := dp.Attributes.Value(attribute.Key("route"))
				status, _ := dp.Attributes.Value(attribute.Key("status_code"))
				counts[route.AsString()+" "+status.Emit()] += dp.Value
			}
		}
	}
	return counts
}

func TestOTelMiddleware_RecordsRoutePattern(t *testing.T) {
	f := newOTelFixture(t)
	defer f.shutdown()

	var sawMetrics bool
	r := chi.NewRouter()
	r.Use(f.mw.Handler)
	r.Post("/api/schedules/{action}", func(w http.ResponseWriter, r *http.Request) {
		sawMetrics = GetBusinessMetricsFromContext(r.Context()) != nil
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/schedules/merge", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/schedules/export", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.True(t, sawMetrics)
	counts := f.requestCounts(t)
	assert.Equal(t, int64(2), counts["/api/schedules/{action} 422"])
	assert.Equal(t, int64(1), counts["unmatched 404"])

	ended := f.spans.GetSpans()
	require.Len(t, ended, 3)
	assert.Equal(t, "POST /api/schedules/{action}", ended[0].Name)
}

func TestOTelMiddleware_SetsTraceID(t *testing.T) {
	f := newOTelFixture(t)
	defer f.shutdown()

	var traceID string
	h := f.mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = infrastructure.GetTraceID(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Len(t, f.spans.GetSpans(), 1)
	assert.Equal(t, f.spans.GetSpans()[0].SpanContext.TraceID().String(), traceID)
}

func TestNewOTelMiddleware_RequiresProviders(t *testing.T) {
	_, err := NewOTelMiddleware(nil, nil)
	assert.Error(t, err)
}

func TestRecordSystemError(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordSystemError(context.Background(), "export", "schedule_handler")
	})

	f := newOTelFixture(t)
	defer f.shutdown()

	ctx := context.WithValue(context.Background(), businessMetricsKey{}, f.mw.businessMetrics)
	RecordSystemError(ctx, "export", "schedule_handler")

	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))
	found := false
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "system_errors_total" {
				found = true
			}
		}
	}
	assert.True(t, found)
}
