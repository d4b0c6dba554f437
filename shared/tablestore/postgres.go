package tablestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"todoapi/infras/otel"
	"todoapi/infras/postgres"
	"todoapi/shared/constant"
	"todoapi/shared/dto"
	"todoapi/shared/logger"

	"github.com/lib/pq"
)

const (
	pqErrorCodeUniqueViolation = "23505"

	argPartition = "tablestore_partition"
	argAfter     = "tablestore_after"
	argLimit     = "tablestore_limit"
	argIfMatch   = "tablestore_if_match"
)

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

type postgresTable[T Entity] struct {
	db      *postgres.Connection
	otel    otel.Otel
	table   string
	name    string
	columns []string
}

// NewPostgres returns a Client backed by one Postgres table whose columns are
// the db tags of T. The table's primary key must be (partition_key, row_key).
func NewPostgres[T Entity](db *postgres.Connection, otl otel.Otel, table string) Client[T] {
	var zero T

	return &postgresTable[T]{
		db:      db,
		otel:    otl,
		table:   pq.QuoteIdentifier(table),
		name:    table,
		columns: columnsOf(reflect.TypeOf(zero)),
	}
}

func (repo *postgresTable[T]) spanName(op string) string {
	return fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.name, op)
}

func (repo *postgresTable[T]) Query(ctx context.Context, partitionKey string, filter dto.FilterGroup, pageSize int) Pager[T] {
	if pageSize <= 0 {
		return FailedPager[T](fmt.Errorf("query %s: page size must be positive, got %d", repo.name, pageSize))
	}

	return &postgresPager[T]{
		repo:         repo,
		partitionKey: partitionKey,
		filter:       filter,
		pageSize:     pageSize,
	}
}

type postgresPager[T Entity] struct {
	repo         *postgresTable[T]
	partitionKey string
	filter       dto.FilterGroup
	pageSize     int
	after        string
	done         bool
}

func (p *postgresPager[T]) More() bool {
	return !p.done
}

// NextPage reads the next keyset page ordered by row key.
func (p *postgresPager[T]) NextPage(ctx context.Context) (page Page[T], err error) {
	repo := p.repo

	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("NextPage"))
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	where, args := p.filter.GetWhereClause()
	if where != "" {
		where = " AND " + where
	}

	args[argPartition] = p.partitionKey
	args[argAfter] = p.after
	args[argLimit] = p.pageSize

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = :%s AND %s > :%s%s ORDER BY %s LIMIT :%s",
		strings.Join(repo.columns, ", "), repo.table,
		ColumnPartitionKey, argPartition,
		ColumnRowKey, argAfter,
		where,
		ColumnRowKey, argLimit,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return page, fmt.Errorf("failed to prepare statement (%s): %w", repo.name, err)
	}
	defer prepare.Close()

	values := []T{}

	if err = prepare.SelectContext(ctx, &values, args); err != nil {
		logger.ErrorWithStack(err)

		return page, fmt.Errorf("failed to query data (%s): %w", repo.name, err)
	}

	if len(values) < p.pageSize {
		p.done = true
	}

	if len(values) > 0 {
		p.after = values[len(values)-1].GetRowKey()
	}

	if !p.done {
		page.ContinuationToken = p.after
	}

	page.Values = values

	return page, nil
}

func (repo *postgresTable[T]) AddEntity(ctx context.Context, entity T) (tag ETag, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("AddEntity"))
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	placeholders := make([]string, len(repo.columns))
	for i, col := range repo.columns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.columns, ", "), strings.Join(placeholders, ", "))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	tag = NewETag()
	args := argsOf(entity)
	args[ColumnETag] = string(tag)

	if err = repo.exec(ctx, repo.db.Write, query, args); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqErrorCodeUniqueViolation {
			return "", fmt.Errorf("failed to insert data (%s): %w", repo.name, ErrEntityExists)
		}

		return "", fmt.Errorf("failed to insert data (%s): %w", repo.name, err)
	}

	return tag, nil
}

func (repo *postgresTable[T]) UpdateEntity(ctx context.Context, entity T, ifMatch ETag) (tag ETag, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("UpdateEntity"))
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	updateField := []string{}

	for _, col := range repo.columns {
		if slices.Contains([]string{ColumnPartitionKey, ColumnRowKey}, col) {
			continue
		}

		updateField = append(updateField, fmt.Sprintf("%s = :%s", col, col))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", repo.table, strings.Join(updateField, ", "), keyCondition())
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	tag = NewETag()
	args := argsOf(entity)
	args[ColumnETag] = string(tag)
	args[argIfMatch] = string(ifMatch)

	if err = repo.execOne(ctx, query, args); err != nil {
		return "", fmt.Errorf("failed to update data (%s): %w", repo.name, err)
	}

	return tag, nil
}

func (repo *postgresTable[T]) DeleteEntity(ctx context.Context, partitionKey, rowKey string, ifMatch ETag) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("DeleteEntity"))
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query := fmt.Sprintf("DELETE FROM %s WHERE %s", repo.table, keyCondition())
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		ColumnPartitionKey: partitionKey,
		ColumnRowKey:       rowKey,
		argIfMatch:         string(ifMatch),
	}

	if err = repo.execOne(ctx, query, args); err != nil {
		return fmt.Errorf("failed to delete data (%s): %w", repo.name, err)
	}

	return nil
}

// keyCondition addresses one row and honours the if-match token.
func keyCondition() string {
	return fmt.Sprintf("%s = :%s AND %s = :%s AND (:%s = '%s' OR %s = :%s)",
		ColumnPartitionKey, ColumnPartitionKey,
		ColumnRowKey, ColumnRowKey,
		argIfMatch, ETagAny, ColumnETag, argIfMatch,
	)
}

func (repo *postgresTable[T]) exec(ctx context.Context, exec execer, query string, args map[string]any) error {
	if _, err := exec.NamedExecContext(ctx, query, args); err != nil {
		logger.ErrorWithStack(err)

		return err //nolint:wrapcheck
	}

	return nil
}

// execOne runs a write that must touch exactly one row.
func (repo *postgresTable[T]) execOne(ctx context.Context, query string, args map[string]any) error {
	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return err //nolint:wrapcheck
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err //nolint:wrapcheck
	}

	if affected == 0 {
		return ErrPreconditionFailed
	}

	return nil
}
