package repository

import (
	"errors"
	"fmt"
)

// 存储层错误分类。约定：
// - 按 id/key 查询未命中 -> ErrNotFound（绝不 panic）
// - 唯一键冲突 -> ErrDuplicateKey
// - 外键指向不存在或角色不符的实体 -> ErrInvalidReference
// - 业务不变量被破坏（负数金额、库存不足、重复入住等）-> ErrInvariantViolation
// - 多步事务无法提交 -> ErrTransactionFailure
// 具体约束信息用 %w 包装，调用方用 errors.Is 判别。
//
// 本层不做角色鉴权：scoping id 来自调用方（HTTP 层的 capability 检查），
// 这里按给定 id 硬过滤，信任边界在上一层。
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrTransactionFailure = errors.New("transaction failure")
)

// invalidf wraps a constraint-check failure as an invariant violation.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// notFoundf wraps a missed lookup with the entity that was asked for.
func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// duplicatef wraps a unique-key conflict naming the offending key.
func duplicatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDuplicateKey, fmt.Sprintf(format, args...))
}

// badreff wraps a foreign reference pointing at the wrong kind of entity.
func badreff(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidReference, fmt.Sprintf(format, args...))
}
