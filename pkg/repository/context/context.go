package context

import (
	"context"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository"
)

type querierContextKey struct{}

func NewContext(ctx context.Context, q repository.Querier) context.Context {
	return context.WithValue(ctx, querierContextKey{}, q)
}

func FromContext(ctx context.Context) repository.Querier {
	if ctx == nil {
		return nil
	}
	if q, ok := ctx.Value(querierContextKey{}).(repository.Querier); ok {
		return q
	}
	return nil
}
