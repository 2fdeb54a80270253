package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/career-day/repositories"
)

// runInTx выполняет fn в одной транзакции: panic или ошибка -> Rollback, иначе Commit.
func runInTx(ctx context.Context, db *sql.DB, logger *slog.Logger, fn func(tx *sql.Tx) error) (txErr error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.WarnContext(ctx, "Transaction rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	txErr = fn(tx)
	return txErr
}

// transientIfConflict отдаёт конфликт блокировок как ErrTransient без повтора: запрос безопасно повторить целиком.
func transientIfConflict(err error, op string) error {
	if err != nil && repositories.IsRetryable(err) {
		return fmt.Errorf("%w: %s conflicted with a concurrent request", ErrTransient, op)
	}
	return err
}
