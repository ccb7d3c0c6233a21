package statements

import (
	"context"

	"github.com/dhima/dbutils/internal/models"
	"github.com/dhima/dbutils/pkg/dbutils"
)

// Handle is the subset of *dbutils.Handle the service drives.
type Handle interface {
	SelectAll(ctx context.Context, query string, args ...any) (dbutils.ResultSet, error)
	SelectN(ctx context.Context, query string, n int, args ...any) (dbutils.ResultSet, error)
	SelectOne(ctx context.Context, query string, args ...any) (*dbutils.Row, error)
	Insert(ctx context.Context, stmt string, args ...any) (int64, error)
	Update(ctx context.Context, stmt string, args ...any) (int64, error)
	Delete(ctx context.Context, stmt string, args ...any) (int64, error)
	ReadOnly(ctx context.Context, fn func(dbutils.Querier) error) error
	Ping(ctx context.Context) error
}

// EventPublisher abstracts the Kafka publisher for testability.
type EventPublisher interface {
	Publish(ctx context.Context, event models.MutationEvent) error
}
