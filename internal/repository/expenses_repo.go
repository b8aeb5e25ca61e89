package repository

import (
	"context"

	"nyumbani-data/internal/domain"
)

// ExpensesRepository 房东支出 Repository 接口
type ExpensesRepository interface {
	CreateExpense(ctx context.Context, ne domain.NewExpense) (*domain.Expense, error)
	GetExpensesByLandlord(ctx context.Context, landlordID string) ([]*domain.Expense, error)
}
