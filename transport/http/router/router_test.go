package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"todoapi/config"
	"todoapi/infras/otel/mocks"
	todoMocks "todoapi/internal/domains/todo/mocks"
	"todoapi/internal/domains/todo/model"
	"todoapi/internal/handlers/health"
	"todoapi/internal/handlers/todo"
	"todoapi/transport/http/middleware"
	"todoapi/transport/http/router"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setup(t *testing.T, status *health.Status) (http.Handler, *todoMocks.MockTodoService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := todoMocks.NewMockTodoService(ctrl)
	otl := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.App.CORS.Enable = true
	cfg.App.CORS.AllowedOrigins = []string{"*"}

	r := router.New(
		router.DomainHandlers{
			Todo:   todo.New(svc, otl),
			Health: health.New(status),
		},
		middleware.NewAppMiddleware(otl, cfg, nil, status),
		cfg,
	)

	mux := chi.NewRouter()
	r.SetupRoutes(mux)

	return mux, svc
}

func TestRoutes(t *testing.T) {
	mux, svc := setup(t, health.NewStatus())
	svc.EXPECT().GetAll(gomock.Any()).Return([]model.ToDoItem{}, nil)

	tests := []struct {
		name     string
		target   string
		wantCode int
	}{
		{name: "health", target: "/health", wantCode: http.StatusOK},
		{name: "list", target: "/todo", wantCode: http.StatusOK},
		{name: "api document", target: "/swagger/doc.json", wantCode: http.StatusOK},
		{name: "unknown route", target: "/todos", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCleanupPeriodRejectsTodoRequests(t *testing.T) {
	status := health.NewStatus()
	status.Set(health.ServerStateInCleanupPeriod)

	mux, _ := setup(t, status)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/todo", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"SERVER PREPARING TO SHUT DOWN"}`, rec.Body.String())
}
