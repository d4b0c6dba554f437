package health_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"todoapi/internal/handlers/health"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		state    health.ServerState
		wantCode int
		wantBody string
	}{
		{name: "ready", state: health.ServerStateReady, wantCode: http.StatusOK, wantBody: `{"message":"OK"}`},
		{name: "grace period", state: health.ServerStateInGracePeriod, wantCode: http.StatusServiceUnavailable, wantBody: `{"message":"SERVER UNHEALTHY"}`},
		{name: "cleanup period", state: health.ServerStateInCleanupPeriod, wantCode: http.StatusServiceUnavailable, wantBody: `{"message":"SERVER UNHEALTHY"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := health.NewStatus()
			status.Set(tt.state)

			handler := health.New(status)
			router := chi.NewRouter()
			handler.Router(router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestNewStatusStartsReady(t *testing.T) {
	assert.True(t, health.NewStatus().Ready())
}
