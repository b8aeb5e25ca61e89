package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// pq error codes we translate into the storage error taxonomy.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// mapPQError 把驱动错误翻译成本层的错误分类；无法识别的原样返回。
func mapPQError(err error, what string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s (%s)", ErrDuplicateKey, what, pqErr.Constraint)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s (%s)", ErrInvalidReference, what, pqErr.Constraint)
		case pqCheckViolation:
			return fmt.Errorf("%w: %s (%s)", ErrInvariantViolation, what, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// inTx 开启事务执行 fn，fn 出错一律回滚。提交失败归类为
// ErrTransactionFailure。ctx 取消时 database/sql 让语句失败并走回滚路径：
// 未提交的写入没有任何效果，已提交的写入不受取消影响。
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailure, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailure, err)
	}
	return nil
}
