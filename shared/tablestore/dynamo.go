package tablestore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"todoapi/infras/otel"
	"todoapi/shared/constant"
	"todoapi/shared/dto"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client used by the table store.
type DynamoAPI interface {
	dynamodb.QueryAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type dynamoTable[T Entity] struct {
	client DynamoAPI
	otel   otel.Otel
	table  string
}

// NewDynamo returns a Client backed by a DynamoDB table with hash key
// partition_key and range key row_key. Attributes follow the dynamodbav tags of T.
func NewDynamo[T Entity](client DynamoAPI, otl otel.Otel, table string) Client[T] {
	return &dynamoTable[T]{
		client: client,
		otel:   otl,
		table:  table,
	}
}

func (repo *dynamoTable[T]) spanName(op string) string {
	return fmt.Sprintf("%s.dynamo.%s.%s", constant.OtelRepositoryScopeName, repo.table, op)
}

func (repo *dynamoTable[T]) Query(_ context.Context, partitionKey string, filter dto.FilterGroup, pageSize int) Pager[T] {
	if pageSize <= 0 || pageSize > math.MaxInt32 {
		return FailedPager[T](fmt.Errorf("query %s: invalid page size %d", repo.table, pageSize))
	}

	keyCond := expression.Key(ColumnPartitionKey).Equal(expression.Value(partitionKey))

	// A lone row key match is a point read, served by the key condition alone.
	if rowKey, ok := rowKeyMatch(filter); ok {
		keyCond = keyCond.And(expression.Key(ColumnRowKey).Equal(expression.Value(rowKey)))
		filter = dto.FilterGroup{}
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCond)

	if !filter.IsEmpty() {
		cond, err := Condition(filter)
		if err != nil {
			return FailedPager[T](fmt.Errorf("query %s: %w", repo.table, err))
		}

		builder = builder.WithFilter(cond)
	}

	expr, err := builder.Build()
	if err != nil {
		return FailedPager[T](fmt.Errorf("query %s: failed to build expression: %w", repo.table, err))
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(repo.table),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(int32(pageSize)), //nolint:gosec
	}

	return &dynamoPager[T]{
		repo:      repo,
		paginator: dynamodb.NewQueryPaginator(repo.client, input),
	}
}

type dynamoPager[T Entity] struct {
	repo      *dynamoTable[T]
	paginator *dynamodb.QueryPaginator
}

func (p *dynamoPager[T]) More() bool {
	return p.paginator.HasMorePages()
}

func (p *dynamoPager[T]) NextPage(ctx context.Context) (page Page[T], err error) {
	ctx, scope := p.repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, p.repo.spanName("NextPage"))
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	out, err := p.paginator.NextPage(ctx)
	if err != nil {
		return page, fmt.Errorf("error querying dynamo table %s: %w", p.repo.table, err)
	}

	values := []T{}
	if err = attributevalue.UnmarshalListOfMaps(out.Items, &values); err != nil {
		return page, fmt.Errorf("error unmarshalling dynamo items: %w", err)
	}

	if key, ok := out.LastEvaluatedKey[ColumnRowKey].(*types.AttributeValueMemberS); ok {
		page.ContinuationToken = key.Value
	}

	page.Values = values

	return page, nil
}

func (repo *dynamoTable[T]) AddEntity(ctx context.Context, entity T) (tag ETag, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("AddEntity"))
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cond := expression.AttributeNotExists(expression.Name(ColumnRowKey))

	tag, err = repo.put(ctx, entity, cond)
	if err != nil {
		if isConditionalCheckFailed(err) {
			return "", fmt.Errorf("error putting dynamo item: %w", ErrEntityExists)
		}

		return "", err
	}

	return tag, nil
}

func (repo *dynamoTable[T]) UpdateEntity(ctx context.Context, entity T, ifMatch ETag) (tag ETag, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("UpdateEntity"))
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tag, err = repo.put(ctx, entity, matchCondition(ifMatch))
	if err != nil {
		if isConditionalCheckFailed(err) {
			return "", fmt.Errorf("error replacing dynamo item: %w", ErrPreconditionFailed)
		}

		return "", err
	}

	return tag, nil
}

func (repo *dynamoTable[T]) DeleteEntity(ctx context.Context, partitionKey, rowKey string, ifMatch ETag) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("DeleteEntity"))
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	expr, err := expression.NewBuilder().WithCondition(matchCondition(ifMatch)).Build()
	if err != nil {
		return fmt.Errorf("error building dynamo condition: %w", err)
	}

	_, err = repo.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(repo.table),
		Key: map[string]types.AttributeValue{
			ColumnPartitionKey: &types.AttributeValueMemberS{Value: partitionKey},
			ColumnRowKey:       &types.AttributeValueMemberS{Value: rowKey},
		},
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return fmt.Errorf("error deleting dynamo item: %w", ErrPreconditionFailed)
		}

		return fmt.Errorf("error deleting dynamo item: %w", err)
	}

	return nil
}

func (repo *dynamoTable[T]) put(ctx context.Context, entity T, cond expression.ConditionBuilder) (ETag, error) {
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return "", fmt.Errorf("error marshalling dynamo item: %w", err)
	}

	tag := NewETag()
	item[ColumnETag] = &types.AttributeValueMemberS{Value: string(tag)}

	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return "", fmt.Errorf("error building dynamo condition: %w", err)
	}

	_, err = repo.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(repo.table),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return "", fmt.Errorf("error putting dynamo item: %w", err)
	}

	return tag, nil
}

func rowKeyMatch(group dto.FilterGroup) (string, bool) {
	if len(group.Filters) != 1 {
		return "", false
	}

	filter, ok := group.Filters[0].(dto.Filter)
	if !ok || filter.Field != ColumnRowKey || filter.Operator != dto.FilterOperatorEq {
		return "", false
	}

	rowKey, ok := filter.Value.(string)

	return rowKey, ok
}

// matchCondition requires the item to exist and, unless ifMatch is ETagAny, to carry that token.
func matchCondition(ifMatch ETag) expression.ConditionBuilder {
	cond := expression.AttributeExists(expression.Name(ColumnRowKey))

	if ifMatch != ETagAny {
		cond = cond.And(expression.Name(ColumnETag).Equal(expression.Value(string(ifMatch))))
	}

	return cond
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException

	return errors.As(err, &ccf)
}

// Condition translates a filter group into a DynamoDB condition expression.
func Condition(group dto.FilterGroup) (expression.ConditionBuilder, error) {
	conditions := []expression.ConditionBuilder{}

	for _, item := range group.Filters {
		var (
			cond expression.ConditionBuilder
			err  error
		)

		switch filter := item.(type) {
		case dto.Filter:
			cond, err = filterCondition(filter)
		case dto.FilterGroup:
			if filter.IsEmpty() {
				continue
			}

			cond, err = Condition(filter)
		default:
			err = fmt.Errorf("%w: %T", ErrUnsupportedFilter, item)
		}

		if err != nil {
			return expression.ConditionBuilder{}, err
		}

		conditions = append(conditions, cond)
	}

	switch len(conditions) {
	case 0:
		return expression.ConditionBuilder{}, fmt.Errorf("%w: empty group", ErrUnsupportedFilter)
	case 1:
		return conditions[0], nil
	}

	if group.Op() == dto.FilterGroupOperatorOr {
		return expression.Or(conditions[0], conditions[1], conditions[2:]...), nil
	}

	return expression.And(conditions[0], conditions[1], conditions[2:]...), nil
}

func filterCondition(filter dto.Filter) (expression.ConditionBuilder, error) {
	name := expression.Name(filter.Field)

	switch filter.Operator {
	case dto.FilterOperatorEq:
		return name.Equal(expression.Value(filter.Value)), nil
	case dto.FilterOperatorNotEq:
		return name.NotEqual(expression.Value(filter.Value)), nil
	case dto.FilterOperatorLessEq:
		return name.LessThanEqual(expression.Value(filter.Value)), nil
	case dto.FilterOperatorGreaterEq:
		return name.GreaterThanEqual(expression.Value(filter.Value)), nil
	case dto.FilterOperatorLike:
		return name.Contains(fmt.Sprint(filter.Value)), nil
	case dto.FilterIsNull:
		return expression.AttributeNotExists(name), nil
	case dto.FilterIsNotNull:
		return expression.AttributeExists(name), nil
	case dto.FilterOperatorIn:
		val := reflect.ValueOf(filter.Value)
		if (val.Kind() != reflect.Slice && val.Kind() != reflect.Array) || val.Len() == 0 {
			return expression.ConditionBuilder{}, fmt.Errorf("%w: in requires a non-empty list for %s", ErrUnsupportedFilter, filter.Field)
		}

		operands := make([]expression.OperandBuilder, val.Len())
		for idx := range val.Len() {
			operands[idx] = expression.Value(val.Index(idx).Interface())
		}

		return name.In(operands[0], operands[1:]...), nil
	default:
		return expression.ConditionBuilder{}, fmt.Errorf("%w: operator %q", ErrUnsupportedFilter, filter.Operator)
	}
}
