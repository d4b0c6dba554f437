package helper

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todoapi/config"
	"todoapi/infras/dynamo"
	"todoapi/shared/tablestore"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

const dynamoTableWaitTime = 2 * time.Minute

// DynamoTableAPI is the part of the DynamoDB client used to provision the table.
type DynamoTableAPI interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	dynamodb.DescribeTableAPIClient
}

// CreateDynamoTable provisions the table store table. An existing table is left as is.
func CreateDynamoTable(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), dynamoTableWaitTime)
	defer cancel()

	return EnsureDynamoTable(ctx, dynamo.New(cfg), cfg.Store.TableName, dynamoTableWaitTime)
}

func EnsureDynamoTable(ctx context.Context, client DynamoTableAPI, table string, wait time.Duration) error {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(tablestore.ColumnPartitionKey), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(tablestore.ColumnRowKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(tablestore.ColumnPartitionKey), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(tablestore.ColumnRowKey), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})

	var inUse *types.ResourceInUseException
	if errors.As(err, &inUse) {
		log.Info().Str("table", table).Msg("DynamoDB table already exists")

		return nil
	}

	if err != nil {
		return fmt.Errorf("error creating dynamo table %s: %w", table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err = waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)}, wait); err != nil {
		return fmt.Errorf("error waiting for dynamo table %s: %w", table, err)
	}

	log.Info().Str("table", table).Msg("DynamoDB table created successfully")

	return nil
}
