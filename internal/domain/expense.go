package domain

import (
	"database/sql"
	"fmt"
	"time"
)

// Expense 房东支出记录（对应 expenses 表）
type Expense struct {
	ExpenseID   string         `db:"expense_id"`
	LandlordID  string         `db:"landlord_id"`  // NOT NULL, FK users
	ApartmentID sql.NullString `db:"apartment_id"` // nullable, FK apartments
	AmountCents int64          `db:"amount_cents"` // NOT NULL, > 0
	ExpenseType string         `db:"expense_type"` // NOT NULL, free text category
	Description sql.NullString `db:"description"`  // nullable
	ExpenseDate time.Time      `db:"expense_date"` // NOT NULL
}

// NewExpense 可插入投影。
type NewExpense struct {
	LandlordID  string
	ApartmentID string // optional
	AmountCents int64
	ExpenseType string
	Description string // optional
	ExpenseDate time.Time
}

func (e NewExpense) Validate() error {
	if e.LandlordID == "" {
		return fmt.Errorf("landlord_id is required")
	}
	if e.AmountCents <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if e.ExpenseType == "" {
		return fmt.Errorf("expense_type is required")
	}
	if e.ExpenseDate.IsZero() {
		return fmt.Errorf("expense_date is required")
	}
	return nil
}
