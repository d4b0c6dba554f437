package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"todoapi/shared/failure"
	"todoapi/transport/http/response"

	"github.com/stretchr/testify/assert"
)

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusOK, []string{"a"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `["a"]`, rec.Body.String())
}

func TestWithCreated(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithCreated(rec, "/todo", map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/todo", rec.Header().Get("Location"))
	assert.JSONEq(t, `{"id":"1"}`, rec.Body.String())
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "failure code is used", err: failure.BadRequestFromString("taskDescription is required"), code: http.StatusBadRequest},
		{name: "plain error is internal", err: errors.New("connection refused"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.err.Error()+`"}`, rec.Body.String())
		})
	}
}

func TestWithNoContent(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithNoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
