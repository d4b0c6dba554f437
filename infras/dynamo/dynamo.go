package dynamo

import (
	"context"
	"todoapi/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog/log"
)

// New returns a DynamoDB client. A custom endpoint (DynamoDB Local, LocalStack)
// and static credentials are used when configured.
func New(config *config.Config) *dynamodb.Client {
	dyn := config.External.Dynamo

	opts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(dyn.Region),
	}

	if dyn.AccessKeyID != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(dyn.AccessKeyID, dyn.SecretAccessKey, ""),
		))
	}

	cfg, err := awsConfig.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading AWS configuration")
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if dyn.Endpoint != "" {
			o.BaseEndpoint = aws.String(dyn.Endpoint)
		}
	})

	log.Info().Str("region", dyn.Region).Str("endpoint", dyn.Endpoint).Msg("DynamoDB client initialized")

	return client
}
