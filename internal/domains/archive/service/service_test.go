package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"todoapi/config"
	"todoapi/infras/otel/mocks"
	s3Mocks "todoapi/infras/s3/mocks"
	"todoapi/internal/domains/archive/service"
	"todoapi/internal/domains/todo/model"
	"todoapi/shared/failure"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const todoID = "3c2f7a0e-8f5b-4a57-b7a2-6ad2f1c9e001"

func TestArchive(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.S3.BucketName = "todos"

	tests := []struct {
		name      string
		item      model.ToDoItem
		setupMock func(blob *s3Mocks.MockS3)
		wantCode  int
	}{
		{
			name: "writes the marker",
			item: model.ToDoItem{ID: todoID},
			setupMock: func(blob *s3Mocks.MockS3) {
				gomock.InOrder(
					blob.EXPECT().EnsureBucket(gomock.Any(), "todos").Return(nil),
					blob.EXPECT().UploadFileBytes(gomock.Any(), "todos", "", todoID+".txt", "text/plain", []byte("Created new task "+todoID)).
						Return(todoID+".txt", nil),
				)
			},
		},
		{
			name:      "missing id is rejected",
			item:      model.ToDoItem{},
			setupMock: func(*s3Mocks.MockS3) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "bucket failure",
			item: model.ToDoItem{ID: todoID},
			setupMock: func(blob *s3Mocks.MockS3) {
				blob.EXPECT().EnsureBucket(gomock.Any(), "todos").Return(errors.New("access denied"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "upload failure",
			item: model.ToDoItem{ID: todoID},
			setupMock: func(blob *s3Mocks.MockS3) {
				blob.EXPECT().EnsureBucket(gomock.Any(), "todos").Return(nil)
				blob.EXPECT().UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("timeout"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			blob := s3Mocks.NewMockS3(ctrl)
			tt.setupMock(blob)

			err := service.New(blob, cfg, mocks.NewOtel()).Archive(context.Background(), tt.item)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestMarker(t *testing.T) {
	assert.Equal(t, "abc.txt", service.ObjectName("abc"))
	assert.Equal(t, "Created new task abc", service.Marker("abc"))

	// Canonical ids keep their hyphens in the blob name and content.
	assert.Equal(t, "3c2f7a0e-8f5b-4a57-b7a2-6ad2f1c9e001.txt", service.ObjectName(todoID))
	assert.Equal(t, "Created new task 3c2f7a0e-8f5b-4a57-b7a2-6ad2f1c9e001", service.Marker(todoID))
}
