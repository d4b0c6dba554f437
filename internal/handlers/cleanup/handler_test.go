package cleanup_test

import (
	"context"
	"errors"
	"testing"
	"todoapi/infras/otel/mocks"
	cleanupMocks "todoapi/internal/domains/cleanup/mocks"
	"todoapi/internal/domains/cleanup/service"
	"todoapi/internal/handlers/cleanup"

	"go.uber.org/mock/gomock"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name   string
		result service.Result
		err    error
	}{
		{name: "completed", result: service.Result{Scanned: 3, Deleted: 2, Failed: 1}},
		{name: "scan failure is absorbed", err: errors.New("store unavailable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := cleanupMocks.NewMockCleanup(ctrl)
			svc.EXPECT().DeleteCompleted(gomock.Any()).Return(tt.result, tt.err).Times(1)

			handler := cleanup.New(svc, mocks.NewOtel())
			handler.Run(context.Background())
		})
	}
}
