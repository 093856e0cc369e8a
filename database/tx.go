package database

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
)

// Transaction runs fn in a read-committed transaction and retries the whole unit on
// serialization failures and deadlocks. fn must be safe to run more than once.
func (db *DB) Transaction(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return WithRetry(ctx, func() error {
		return db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
	})
}
