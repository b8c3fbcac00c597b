package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// txFn runs inside a transaction. Returning an error rolls it back.
type txFn func(ctx context.Context, tx *sql.Tx) error

// runInTransaction commits fn's work if it returns nil and rolls back
// otherwise. A panic inside fn rolls back and is re-raised.
func runInTransaction(ctx context.Context, db *sql.DB, log zerolog.Logger, fn txFn) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Interface("panic", p).Msg("rollback after panic failed")
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).AnErr("cause", err).Msg("rollback failed")
			return fmt.Errorf("rollback: %v (original error: %w)", rbErr, err)
		}
		log.Debug().Err(err).Msg("rolled back transaction")
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
