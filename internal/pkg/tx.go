package pkg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// WithTx executes fn within a database transaction bound to ctx.
// It commits on success, rolls back on error or panic. Errors returned by
// fn are passed through unwrapped so callers can match domain errors.
// Begin and commit failures carry a "begin transaction" or
// "commit transaction" prefix and wrap the cause, which is ctx.Err() when
// the request was canceled.
func WithTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			rollback(ctx, tx)
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		rollback(ctx, tx)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// rollback aborts tx and logs any failure other than sql.ErrTxDone.
func rollback(ctx context.Context, tx *gorm.DB) {
	err := tx.Rollback().Error
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		return
	}
	slog.WarnContext(ctx, "transaction rollback failed", "error", err)
}
