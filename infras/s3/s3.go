package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sync"
	"todoapi/config"
	"todoapi/infras/otel"
	"todoapi/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrFileName = "file_name"
	otelAttrBucket   = "bucket"
)

// S3 is the blob store used by the archive job.
type S3 interface {
	// EnsureBucket creates the bucket when it does not exist yet. It is checked once per process.
	EnsureBucket(ctx context.Context, bucketName string) error
	// UploadFileBytes writes fileData under directory/fileName, replacing any previous object.
	UploadFileBytes(ctx context.Context, bucketName, directory, fileName, contentType string, fileData []byte) (key string, err error)
}

// API is the subset of the S3 client used here.
type API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Impl struct {
	Client API
	Config *config.Config
	otel   otel.Otel

	mu      sync.Mutex
	ensured map[string]bool
}

func (svc *s3Impl) EnsureBucket(ctx context.Context, bucketName string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".EnsureBucket")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucketName = svc.bucket(bucketName)
	scope.SetAttribute(otelAttrBucket, bucketName)

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.ensured[bucketName] {
		return nil
	}

	_, err = svc.Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucketName)})
	if err == nil {
		svc.ensured[bucketName] = true

		return nil
	}

	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}

	_, err = svc.Client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucketName)})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if !errors.As(err, &owned) {
			return fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
		}
	}

	log.Info().Str("bucket", bucketName).Msg("Created S3 bucket")

	svc.ensured[bucketName] = true

	return nil
}

func (svc *s3Impl) UploadFileBytes(ctx context.Context, bucketName, directory, fileName, contentType string, fileData []byte) (key string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFileBytes")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucketName = svc.bucket(bucketName)

	scope.SetAttributes(map[string]any{
		otelAttrFileName: fileName,
		otelAttrBucket:   bucketName,
	})

	objectKey := path.Join(directory, fileName)
	fileReader := bytes.NewReader(fileData)

	_, err = svc.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucketName),
		Key:           aws.String(objectKey),
		Body:          fileReader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(fileReader.Size()),
	})
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return objectKey, nil
}

func (svc *s3Impl) bucket(bucketName string) string {
	if bucketName == "" {
		return svc.Config.External.S3.BucketName
	}

	return bucketName
}

// NewWithClient wraps an existing S3 API client.
func NewWithClient(client API, config *config.Config, otel otel.Otel) S3 {
	return &s3Impl{
		Client:  client,
		Config:  config,
		otel:    otel,
		ensured: map[string]bool{},
	}
}

func New(config *config.Config, otel otel.Otel) S3 {
	conf := config.External.S3

	staticProvider := credentials.NewStaticCredentialsProvider(
		conf.AccessKeyID,
		conf.SecretAccessKey,
		"",
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.TODO(),
		awsConfig.WithCredentialsProvider(staticProvider),
	)
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(conf.APIEndpoint)
		}

		o.UsePathStyle = true
		o.Region = conf.Region
	})

	return NewWithClient(s3Client, config, otel)
}
