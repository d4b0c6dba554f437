package tablestore

import (
	"context"
	"errors"
	"testing"
	"todoapi/infras/otel/mocks"
	"todoapi/shared/dto"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dynamoRow struct {
	PartitionKey string `dynamodbav:"partition_key"`
	RowKey       string `dynamodbav:"row_key"`
	Done         bool   `dynamodbav:"done"`
	ETag         ETag   `dynamodbav:"etag"`
}

func (r dynamoRow) GetPartitionKey() string { return r.PartitionKey }
func (r dynamoRow) GetRowKey() string       { return r.RowKey }
func (r dynamoRow) GetETag() ETag           { return r.ETag }

type fakeDynamo struct {
	pages   []*dynamodb.QueryOutput
	queries []*dynamodb.QueryInput
	puts    []*dynamodb.PutItemInput
	deletes []*dynamodb.DeleteItemInput
	err     error
}

func (f *fakeDynamo) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, params)

	if f.err != nil {
		return nil, f.err
	}

	page := f.pages[0]
	f.pages = f.pages[1:]

	return page, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, params)

	return &dynamodb.PutItemOutput{}, f.err
}

func (f *fakeDynamo) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deletes = append(f.deletes, params)

	return &dynamodb.DeleteItemOutput{}, f.err
}

func item(rowKey string, done bool) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		ColumnPartitionKey: &types.AttributeValueMemberS{Value: "TODO"},
		ColumnRowKey:       &types.AttributeValueMemberS{Value: rowKey},
		"done":             &types.AttributeValueMemberBOOL{Value: done},
		ColumnETag:         &types.AttributeValueMemberS{Value: "tag-" + rowKey},
	}
}

func TestDynamo_Query(t *testing.T) {
	fake := &fakeDynamo{
		pages: []*dynamodb.QueryOutput{
			{
				Items:            []map[string]types.AttributeValue{item("a", true)},
				LastEvaluatedKey: map[string]types.AttributeValue{ColumnRowKey: &types.AttributeValueMemberS{Value: "a"}},
			},
			{
				Items: []map[string]types.AttributeValue{item("b", true)},
			},
		},
	}

	client := NewDynamo[dynamoRow](fake, mocks.NewOtel(), "ToDo")

	rows, err := Collect(QueryAll(context.Background(), client.Query(context.Background(), "TODO", dto.And(dto.Eq("done", true)), 1), func(r dynamoRow) dynamoRow { return r }))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].RowKey)
	assert.Equal(t, ETag("tag-a"), rows[0].ETag)
	assert.Equal(t, "b", rows[1].RowKey)

	require.Len(t, fake.queries, 2)
	assert.Equal(t, "ToDo", aws.ToString(fake.queries[0].TableName))
	assert.Equal(t, int32(1), aws.ToInt32(fake.queries[0].Limit))
	assert.NotNil(t, fake.queries[0].KeyConditionExpression)
	assert.NotNil(t, fake.queries[0].FilterExpression)
	assert.Empty(t, fake.pages)
	assert.NotNil(t, fake.queries[1].ExclusiveStartKey)
}

func TestDynamo_QueryByRowKeyUsesKeyCondition(t *testing.T) {
	fake := &fakeDynamo{
		pages: []*dynamodb.QueryOutput{{Items: []map[string]types.AttributeValue{item("b", false)}}},
	}

	client := NewDynamo[dynamoRow](fake, mocks.NewOtel(), "ToDo")

	row, found, err := First(QueryAll(context.Background(), client.Query(context.Background(), "TODO", dto.And(dto.Eq(ColumnRowKey, "b")), 1), func(r dynamoRow) dynamoRow { return r }))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "b", row.RowKey)

	require.Len(t, fake.queries, 1)
	assert.Nil(t, fake.queries[0].FilterExpression)
	assert.Contains(t, fake.queries[0].ExpressionAttributeValues, ":1")
}

func TestDynamo_QueryRejectsUnsupportedFilter(t *testing.T) {
	client := NewDynamo[dynamoRow](&fakeDynamo{}, mocks.NewOtel(), "ToDo")

	filter := dto.And(dto.Filter{Field: "done", Operator: "between"})

	_, err := Collect(QueryAll(context.Background(), client.Query(context.Background(), "TODO", filter, 10), func(r dynamoRow) dynamoRow { return r }))
	require.ErrorIs(t, err, ErrUnsupportedFilter)
}

func TestDynamo_Writes(t *testing.T) {
	entity := dynamoRow{PartitionKey: "TODO", RowKey: "a", Done: true}

	t.Run("add stores a fresh token and requires absence", func(t *testing.T) {
		fake := &fakeDynamo{}
		client := NewDynamo[dynamoRow](fake, mocks.NewOtel(), "ToDo")

		tag, err := client.AddEntity(context.Background(), entity)
		require.NoError(t, err)
		require.NotEmpty(t, tag)

		require.Len(t, fake.puts, 1)
		assert.Equal(t, &types.AttributeValueMemberS{Value: string(tag)}, fake.puts[0].Item[ColumnETag])
		assert.Contains(t, aws.ToString(fake.puts[0].ConditionExpression), "attribute_not_exists")
	})

	t.Run("collision maps to entity exists", func(t *testing.T) {
		fake := &fakeDynamo{err: &types.ConditionalCheckFailedException{}}
		client := NewDynamo[dynamoRow](fake, mocks.NewOtel(), "ToDo")

		_, err := client.AddEntity(context.Background(), entity)
		require.ErrorIs(t, err, ErrEntityExists)
	})

	t.Run("update with token checks it", func(t *testing.T) {
		fake := &fakeDynamo{}
		client := NewDynamo[dynamoRow](fake, mocks.NewOtel(), "ToDo")

		_, err := client.UpdateEntity(context.Background(), entity, ETag("old"))
		require.NoError(t, err)

		require.Len(t, fake.puts, 1)
		assert.Contains(t, fake.puts[0].ExpressionAttributeValues, ":0")
		assert.Contains(t, aws.ToString(fake.puts[0].ConditionExpression), "attribute_exists")
	})

	t.Run("update with wildcard only requires existence", func(t *testing.T) {
		fake := &fakeDynamo{}
		client := NewDynamo[dynamoRow](fake, mocks.NewOtel(), "ToDo")

		_, err := client.UpdateEntity(context.Background(), entity, ETagAny)
		require.NoError(t, err)

		assert.Empty(t, fake.puts[0].ExpressionAttributeValues)
	})

	t.Run("failed condition on delete maps to precondition failed", func(t *testing.T) {
		fake := &fakeDynamo{err: &types.ConditionalCheckFailedException{}}
		client := NewDynamo[dynamoRow](fake, mocks.NewOtel(), "ToDo")

		err := client.DeleteEntity(context.Background(), "TODO", "a", ETag("stale"))
		require.ErrorIs(t, err, ErrPreconditionFailed)

		require.Len(t, fake.deletes, 1)
		assert.Equal(t, &types.AttributeValueMemberS{Value: "a"}, fake.deletes[0].Key[ColumnRowKey])
	})

	t.Run("other errors pass through", func(t *testing.T) {
		fake := &fakeDynamo{err: errors.New("throttled")}
		client := NewDynamo[dynamoRow](fake, mocks.NewOtel(), "ToDo")

		err := client.DeleteEntity(context.Background(), "TODO", "a", ETagAny)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrPreconditionFailed)
	})
}

func TestCondition(t *testing.T) {
	tests := []struct {
		name    string
		filter  dto.FilterGroup
		wantErr bool
	}{
		{name: "single eq", filter: dto.And(dto.Eq("done", true))},
		{name: "and of two", filter: dto.And(dto.Eq("done", true), dto.Filter{Field: "row_key", Operator: dto.FilterOperatorNotEq, Value: "a"})},
		{name: "or group", filter: dto.FilterGroup{Operator: dto.FilterGroupOperatorOr, Filters: []any{dto.Eq("a", 1), dto.Eq("b", 2)}}},
		{name: "in list", filter: dto.And(dto.Filter{Field: "row_key", Operator: dto.FilterOperatorIn, Value: []string{"a", "b"}})},
		{name: "nested group", filter: dto.And(dto.And(dto.Filter{Field: "etag", Operator: dto.FilterIsNotNull}))},
		{name: "empty in list", filter: dto.And(dto.Filter{Field: "row_key", Operator: dto.FilterOperatorIn, Value: []string{}}), wantErr: true},
		{name: "unknown operator", filter: dto.And(dto.Filter{Field: "done", Operator: "between"}), wantErr: true},
		{name: "unknown filter type", filter: dto.And("done = true"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Condition(tt.filter)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedFilter)

				return
			}

			require.NoError(t, err)
		})
	}
}
