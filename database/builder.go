package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// QueryBuilder is a small typed layer over bun select queries. It accumulates
// clauses and applies them to a fresh query for every execution, so the same
// builder can be counted and then paged.
type QueryBuilder[T any] struct {
	db      bun.IDB
	clauses []func(*bun.SelectQuery) *bun.SelectQuery
	limit   int
	offset  int
}

// Query creates a new QueryBuilder against a database or transaction
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

func (q *QueryBuilder[T]) apply(fn func(*bun.SelectQuery) *bun.SelectQuery) *QueryBuilder[T] {
	q.clauses = append(q.clauses, fn)
	return q
}

// Where adds an equality condition on column
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.apply(func(s *bun.SelectQuery) *bun.SelectQuery {
		return s.Where("? = ?", bun.Ident(column), value)
	})
}

// WhereRaw adds a raw SQL condition
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	return q.apply(func(s *bun.SelectQuery) *bun.SelectQuery {
		return s.Where(sql, args...)
	})
}

// Search adds a case-insensitive substring match on column
func (q *QueryBuilder[T]) Search(column, term string) *QueryBuilder[T] {
	if term == "" {
		return q
	}
	return q.apply(func(s *bun.SelectQuery) *bun.SelectQuery {
		return s.Where("? ILIKE ?", bun.Ident(column), "%"+term+"%")
	})
}

func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	return q.apply(func(s *bun.SelectQuery) *bun.SelectQuery {
		return s.OrderExpr("? "+string(direction), bun.Ident(column))
	})
}

// Relation preloads a bun relation, optionally narrowing its columns or filters
func (q *QueryBuilder[T]) Relation(name string, apply ...func(*bun.SelectQuery) *bun.SelectQuery) *QueryBuilder[T] {
	return q.apply(func(s *bun.SelectQuery) *bun.SelectQuery {
		return s.Relation(name, apply...)
	})
}

func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limit = limit
	return q
}

func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offset = offset
	return q
}

func (q *QueryBuilder[T]) build(model any, paged bool) *bun.SelectQuery {
	s := q.db.NewSelect().Model(model)
	for _, clause := range q.clauses {
		s = clause(s)
	}
	if paged && q.limit > 0 {
		s = s.Limit(q.limit)
	}
	if paged && q.offset > 0 {
		s = s.Offset(q.offset)
	}
	return s
}

// exec retries fn on transient errors unless the builder runs inside a transaction. There a
// failed statement aborts the transaction, so only DB.Transaction may retry, and it retries the
// whole unit.
func (q *QueryBuilder[T]) exec(ctx context.Context, fn func() error) error {
	if inTransaction(q.db) {
		return fn()
	}
	return WithRetry(ctx, fn)
}

func inTransaction(db bun.IDB) bool {
	switch db.(type) {
	case bun.Tx, *bun.Tx:
		return true
	}
	return false
}

// All executes the query and returns all matching records
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	var data []T
	err := q.exec(ctx, func() error {
		data = nil
		return q.build(&data, true).Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w", err)
	}
	if data == nil {
		data = []T{}
	}
	return data, nil
}

// First returns the first matching record, or nil when nothing matches
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	data := new(T)
	err := q.exec(ctx, func() error {
		return q.build(data, false).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to execute first query: %w", err)
	}
	return data, nil
}

// Count returns the number of matching records ignoring limit and offset
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	var count int
	err := q.exec(ctx, func() error {
		var err error
		count, err = q.build((*T)(nil), false).Count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w", err)
	}
	return count, nil
}

// Pagination represents pagination parameters
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Page wraps paginated data with metadata
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate counts the matching rows and fetches one page of them
func Paginate[T any](ctx context.Context, q *QueryBuilder[T], page, pageSize int) (*Page[T], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	pageSize = min(pageSize, 100)

	total, err := q.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	data, err := q.Limit(pageSize).Offset((page - 1) * pageSize).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get paginated data: %w", err)
	}

	return &Page[T]{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: (total + pageSize - 1) / pageSize,
		},
	}, nil
}
