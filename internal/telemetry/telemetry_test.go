package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetup_Disabled(t *testing.T) {
	shutdown := Setup(context.Background(), models.TelemetryConfiguration{})
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_Tracing(t *testing.T) {
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	shutdown := Setup(context.Background(), models.TelemetryConfiguration{OTLPEndpoint: collector.URL + "/v1/traces"})

	_, span := otel.Tracer("test").Start(context.Background(), "span")
	span.End()
	assert.True(t, span.SpanContext().IsValid())

	assert.NoError(t, shutdown(context.Background()))
}
