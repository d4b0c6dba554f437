package s3_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"todoapi/config"
	infraS3 "todoapi/infras/s3"
	"todoapi/infras/s3/mocks"

	otelMocks "todoapi/infras/otel/mocks"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.External.S3.BucketName = "todos"

	return cfg
}

func TestEnsureBucket(t *testing.T) {
	t.Run("creates a missing bucket once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		api := mocks.NewMockAPI(ctrl)

		api.EXPECT().HeadBucket(gomock.Any(), &s3.HeadBucketInput{Bucket: aws.String("todos")}).
			Return(nil, &types.NotFound{})
		api.EXPECT().CreateBucket(gomock.Any(), &s3.CreateBucketInput{Bucket: aws.String("todos")}).
			Return(&s3.CreateBucketOutput{}, nil)

		svc := infraS3.NewWithClient(api, newConfig(), otelMocks.NewOtel())

		require.NoError(t, svc.EnsureBucket(context.Background(), ""))
		require.NoError(t, svc.EnsureBucket(context.Background(), "todos"))
	})

	t.Run("existing bucket is not created", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		api := mocks.NewMockAPI(ctrl)

		api.EXPECT().HeadBucket(gomock.Any(), gomock.Any()).Return(&s3.HeadBucketOutput{}, nil)

		svc := infraS3.NewWithClient(api, newConfig(), otelMocks.NewOtel())

		require.NoError(t, svc.EnsureBucket(context.Background(), "todos"))
	})

	t.Run("head failure is returned and retried next time", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		api := mocks.NewMockAPI(ctrl)

		api.EXPECT().HeadBucket(gomock.Any(), gomock.Any()).Return(nil, errors.New("access denied"))
		api.EXPECT().HeadBucket(gomock.Any(), gomock.Any()).Return(&s3.HeadBucketOutput{}, nil)

		svc := infraS3.NewWithClient(api, newConfig(), otelMocks.NewOtel())

		require.Error(t, svc.EnsureBucket(context.Background(), "todos"))
		require.NoError(t, svc.EnsureBucket(context.Background(), "todos"))
	})
}

func TestUploadFileBytes(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)

	api.EXPECT().PutObject(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			assert.Equal(t, "todos", aws.ToString(in.Bucket))
			assert.Equal(t, "abc.txt", aws.ToString(in.Key))
			assert.Equal(t, "text/plain", aws.ToString(in.ContentType))

			body, err := io.ReadAll(in.Body)
			require.NoError(t, err)
			assert.Equal(t, "Created new task abc", string(body))

			return &s3.PutObjectOutput{}, nil
		})

	svc := infraS3.NewWithClient(api, newConfig(), otelMocks.NewOtel())

	key, err := svc.UploadFileBytes(context.Background(), "", "", "abc.txt", "text/plain", []byte("Created new task abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc.txt", key)
}
