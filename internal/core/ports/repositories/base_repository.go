package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines methods for transaction management.
// Repository methods that must participate in a caller-owned
// transaction accept the pgx.Tx explicitly.
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction. Rolling back an already
	// committed transaction is a no-op.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
