// Package tablestore is the client contract for a partition-keyed entity table,
// with Postgres and DynamoDB backends and a paged query helper.
//
// Every entity lives under a partition key and is addressed by a row key that is
// unique within that partition. Each successful write stores a fresh concurrency
// token (ETag) which later writes may present to detect lost updates.
package tablestore

import (
	"context"
	"errors"
	"todoapi/shared/dto"

	"github.com/google/uuid"
)

// Column (and attribute) names every entity must carry.
const (
	ColumnPartitionKey = "partition_key"
	ColumnRowKey       = "row_key"
	ColumnETag         = "etag"
)

var (
	// ErrEntityExists is returned when an insert collides with an existing row key.
	ErrEntityExists = errors.New("entity already exists")
	// ErrPreconditionFailed is returned when a write targets a missing entity or
	// presents a concurrency token that no longer matches.
	ErrPreconditionFailed = errors.New("entity precondition failed")
	// ErrUnsupportedFilter is returned when a predicate cannot be expressed by the backend.
	ErrUnsupportedFilter = errors.New("unsupported filter")
)

// ETag is an opaque concurrency token.
type ETag string

// ETagAny matches whatever token is currently stored.
const ETagAny ETag = "*"

// NewETag returns a fresh token.
func NewETag() ETag {
	return ETag(uuid.NewString())
}

// Entity is implemented by every stored type.
type Entity interface {
	GetPartitionKey() string
	GetRowKey() string
	GetETag() ETag
}

// Page is one bounded batch of query results.
type Page[T any] struct {
	Values            []T
	ContinuationToken string
}

// Pager walks a query one page at a time. NextPage must only be called while More reports true.
type Pager[T any] interface {
	More() bool
	NextPage(ctx context.Context) (Page[T], error)
}

// Client is the entity store of one table.
type Client[T Entity] interface {
	// Query scans one partition for entities matching filter. An empty filter matches everything.
	Query(ctx context.Context, partitionKey string, filter dto.FilterGroup, pageSize int) Pager[T]
	// AddEntity inserts a new entity and returns its token.
	AddEntity(ctx context.Context, entity T) (ETag, error)
	// UpdateEntity replaces every field of an existing entity and returns its new token.
	UpdateEntity(ctx context.Context, entity T, ifMatch ETag) (ETag, error)
	// DeleteEntity removes an existing entity.
	DeleteEntity(ctx context.Context, partitionKey, rowKey string, ifMatch ETag) error
}

// errPager reports a single error from its first page.
type errPager[T any] struct {
	err  error
	done bool
}

func (p *errPager[T]) More() bool {
	return !p.done
}

func (p *errPager[T]) NextPage(_ context.Context) (Page[T], error) {
	p.done = true

	return Page[T]{}, p.err
}

// FailedPager returns a pager whose only page fails with err.
func FailedPager[T any](err error) Pager[T] {
	return &errPager[T]{err: err}
}
