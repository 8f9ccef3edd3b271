package application

import "context"

// Query is a read-only request against engine state.
type Query interface {
	QueryName() string
}

// QueryHandler executes one query type and returns its result.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
