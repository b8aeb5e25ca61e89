package repository

import (
	"context"

	"nyumbani-data/internal/domain"
)

// PaymentsRepository 租金支付 Repository 接口
type PaymentsRepository interface {
	// CreateRentPayment 金额必须为正；状态一律写入 pending，
	// 确认/失败走下面的迁移操作。
	CreateRentPayment(ctx context.Context, np domain.NewRentPayment) (*domain.RentPayment, error)

	GetPayment(ctx context.Context, paymentID string) (*domain.RentPayment, error)
	GetPaymentsByTenant(ctx context.Context, tenantID string) ([]*domain.RentPayment, error)
	// GetPaymentsByLandlord 经 room -> unit -> apartment 链路按房东过滤。
	GetPaymentsByLandlord(ctx context.Context, landlordID string) ([]*domain.RentPayment, error)

	// ConfirmPayment / FailPayment: pending -> confirmed|failed。
	// 终态回退返回 ErrInvariantViolation。
	ConfirmPayment(ctx context.Context, paymentID, transactionCode string) (*domain.RentPayment, error)
	FailPayment(ctx context.Context, paymentID string) (*domain.RentPayment, error)
}
