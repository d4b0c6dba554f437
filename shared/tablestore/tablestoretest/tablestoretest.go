// Package tablestoretest provides an in-memory tablestore.Client for tests.
package tablestoretest

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"
	"todoapi/shared/dto"
	"todoapi/shared/tablestore"
)

const fieldTag = "db"

// Calls counts the operations a Table has served.
type Calls struct {
	Query      int
	NextPage   int
	AddEntity  int
	Update     int
	Delete     int
	FailedPage int
}

// Writes is the number of mutating calls.
func (c Calls) Writes() int {
	return c.AddEntity + c.Update + c.Delete
}

// Table keeps entities in memory, keyed by partition and row key.
// Entities must be structs whose etag column is a tablestore.ETag field tagged db:"etag".
type Table[T tablestore.Entity] struct {
	mu    sync.Mutex
	rows  map[string]map[string]T
	calls Calls

	// QueryErr, when set, fails every page request.
	QueryErr error
	// DeleteErr, when set, is consulted before every delete.
	DeleteErr func(partitionKey, rowKey string) error
}

// New returns an empty table.
func New[T tablestore.Entity]() *Table[T] {
	return &Table[T]{rows: map[string]map[string]T{}}
}

// Seed stores entities without counting the writes and returns them with their tokens.
func (t *Table[T]) Seed(entities ...T) []T {
	t.mu.Lock()
	defer t.mu.Unlock()

	seeded := make([]T, 0, len(entities))

	for _, entity := range entities {
		seeded = append(seeded, t.store(entity))
	}

	return seeded
}

// Get returns the stored entity.
func (t *Table[T]) Get(partitionKey, rowKey string) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entity, ok := t.rows[partitionKey][rowKey]

	return entity, ok
}

// Len counts the entities of one partition.
func (t *Table[T]) Len(partitionKey string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.rows[partitionKey])
}

// Calls returns a snapshot of the call counters.
func (t *Table[T]) Calls() Calls {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.calls
}

func (t *Table[T]) Query(_ context.Context, partitionKey string, filter dto.FilterGroup, pageSize int) tablestore.Pager[T] {
	t.mu.Lock()
	t.calls.Query++
	t.mu.Unlock()

	if pageSize <= 0 {
		return tablestore.FailedPager[T](fmt.Errorf("page size must be positive, got %d", pageSize))
	}

	return &pager[T]{table: t, partitionKey: partitionKey, filter: filter, pageSize: pageSize}
}

func (t *Table[T]) AddEntity(_ context.Context, entity T) (tablestore.ETag, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls.AddEntity++

	if _, ok := t.rows[entity.GetPartitionKey()][entity.GetRowKey()]; ok {
		return "", tablestore.ErrEntityExists
	}

	return t.store(entity).GetETag(), nil
}

func (t *Table[T]) UpdateEntity(_ context.Context, entity T, ifMatch tablestore.ETag) (tablestore.ETag, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls.Update++

	if err := t.precondition(entity.GetPartitionKey(), entity.GetRowKey(), ifMatch); err != nil {
		return "", err
	}

	return t.store(entity).GetETag(), nil
}

func (t *Table[T]) DeleteEntity(_ context.Context, partitionKey, rowKey string, ifMatch tablestore.ETag) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls.Delete++

	if t.DeleteErr != nil {
		if err := t.DeleteErr(partitionKey, rowKey); err != nil {
			return err
		}
	}

	if err := t.precondition(partitionKey, rowKey, ifMatch); err != nil {
		return err
	}

	delete(t.rows[partitionKey], rowKey)

	return nil
}

func (t *Table[T]) precondition(partitionKey, rowKey string, ifMatch tablestore.ETag) error {
	current, ok := t.rows[partitionKey][rowKey]
	if !ok {
		return tablestore.ErrPreconditionFailed
	}

	if ifMatch != tablestore.ETagAny && ifMatch != current.GetETag() {
		return tablestore.ErrPreconditionFailed
	}

	return nil
}

func (t *Table[T]) store(entity T) T {
	entity = withETag(entity, tablestore.NewETag())

	partition, ok := t.rows[entity.GetPartitionKey()]
	if !ok {
		partition = map[string]T{}
		t.rows[entity.GetPartitionKey()] = partition
	}

	partition[entity.GetRowKey()] = entity

	return entity
}

type pager[T tablestore.Entity] struct {
	table        *Table[T]
	partitionKey string
	filter       dto.FilterGroup
	pageSize     int
	after        string
	done         bool
}

func (p *pager[T]) More() bool {
	return !p.done
}

func (p *pager[T]) NextPage(_ context.Context) (tablestore.Page[T], error) {
	t := p.table

	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls.NextPage++

	if t.QueryErr != nil {
		t.calls.FailedPage++
		p.done = true

		return tablestore.Page[T]{}, t.QueryErr
	}

	partition := t.rows[p.partitionKey]

	keys := make([]string, 0, len(partition))
	for key := range partition {
		if key > p.after {
			keys = append(keys, key)
		}
	}

	slices.Sort(keys)

	values := []T{}

	for _, key := range keys {
		entity := partition[key]
		p.after = key

		ok, err := match(entity, p.filter)
		if err != nil {
			p.done = true

			return tablestore.Page[T]{}, err
		}

		if ok {
			values = append(values, entity)
		}

		if len(values) == p.pageSize {
			break
		}
	}

	page := tablestore.Page[T]{Values: values}

	if len(values) < p.pageSize || p.after == keys[len(keys)-1] {
		p.done = true
	} else {
		page.ContinuationToken = p.after
	}

	return page, nil
}

func withETag[T any](entity T, tag tablestore.ETag) T {
	value := reflect.ValueOf(&entity).Elem()

	for i := range value.NumField() {
		if strings.Split(value.Type().Field(i).Tag.Get(fieldTag), ",")[0] == tablestore.ColumnETag {
			value.Field(i).SetString(string(tag))
		}
	}

	return entity
}

func match(entity any, group dto.FilterGroup) (bool, error) {
	if group.IsEmpty() {
		return true, nil
	}

	or := group.Op() == dto.FilterGroupOperatorOr

	for _, item := range group.Filters {
		var (
			ok  bool
			err error
		)

		switch filter := item.(type) {
		case dto.Filter:
			ok, err = matchFilter(entity, filter)
		case dto.FilterGroup:
			ok, err = match(entity, filter)
		default:
			err = fmt.Errorf("%w: %T", tablestore.ErrUnsupportedFilter, item)
		}

		if err != nil {
			return false, err
		}

		if ok == or {
			return or, nil
		}
	}

	return !or, nil
}

func matchFilter(entity any, filter dto.Filter) (bool, error) {
	value, ok := tablestore.FieldValue(entity, fieldTag, filter.Field)
	if !ok {
		return false, fmt.Errorf("%w: unknown field %q", tablestore.ErrUnsupportedFilter, filter.Field)
	}

	switch filter.Operator {
	case dto.FilterOperatorEq:
		return reflect.DeepEqual(value, filter.Value), nil
	case dto.FilterOperatorNotEq:
		return !reflect.DeepEqual(value, filter.Value), nil
	case dto.FilterOperatorIn:
		list := reflect.ValueOf(filter.Value)
		if list.Kind() != reflect.Slice && list.Kind() != reflect.Array {
			return reflect.DeepEqual(value, filter.Value), nil
		}

		for idx := range list.Len() {
			if reflect.DeepEqual(value, list.Index(idx).Interface()) {
				return true, nil
			}
		}

		return false, nil
	case dto.FilterOperatorLike:
		return strings.Contains(strings.ToLower(fmt.Sprint(value)), strings.ToLower(fmt.Sprint(filter.Value))), nil
	case dto.FilterIsNull:
		return reflect.ValueOf(value).IsZero(), nil
	case dto.FilterIsNotNull:
		return !reflect.ValueOf(value).IsZero(), nil
	case dto.FilterOperatorLessEq, dto.FilterOperatorGreaterEq:
		cmp, err := compare(value, filter.Value)
		if err != nil {
			return false, err
		}

		if filter.Operator == dto.FilterOperatorLessEq {
			return cmp <= 0, nil
		}

		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("%w: operator %q", tablestore.ErrUnsupportedFilter, filter.Operator)
	}
}

func compare(left, right any) (int, error) {
	switch l := left.(type) {
	case string:
		if r, ok := right.(string); ok {
			return strings.Compare(l, r), nil
		}
	case int:
		if r, ok := right.(int); ok {
			return l - r, nil
		}
	case time.Time:
		if r, ok := right.(time.Time); ok {
			return l.Compare(r), nil
		}
	}

	return 0, fmt.Errorf("%w: cannot order %T against %T", tablestore.ErrUnsupportedFilter, left, right)
}
