package repository

import (
	"context"
	"database/sql"
	"errors"

	"nyumbani-data/internal/domain"
)

// PostgresExpensesRepository 房东支出 Repository 实现
type PostgresExpensesRepository struct {
	db *sql.DB
}

func NewPostgresExpensesRepository(db *sql.DB) *PostgresExpensesRepository {
	return &PostgresExpensesRepository{db: db}
}

var _ ExpensesRepository = (*PostgresExpensesRepository)(nil)

func (r *PostgresExpensesRepository) CreateExpense(ctx context.Context, ne domain.NewExpense) (*domain.Expense, error) {
	if err := ne.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	var apt sql.NullString
	if ne.ApartmentID != "" {
		// 物业必须存在且归该房东所有
		var owner string
		err := r.db.QueryRowContext(ctx,
			`SELECT landlord_id::text FROM apartments WHERE apartment_id = $1`,
			ne.ApartmentID,
		).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, badreff("apartment %q does not exist", ne.ApartmentID)
		}
		if err != nil {
			return nil, mapPQError(err, "check apartment")
		}
		if owner != ne.LandlordID {
			return nil, badreff("apartment %q is not owned by landlord %q", ne.ApartmentID, ne.LandlordID)
		}
		apt = sql.NullString{String: ne.ApartmentID, Valid: true}
	}

	var desc sql.NullString
	if ne.Description != "" {
		desc = sql.NullString{String: ne.Description, Valid: true}
	}

	query := `
		INSERT INTO expenses (landlord_id, apartment_id, amount_cents, expense_type, description, expense_date)
		SELECT user_id, $2, $3, $4, $5, $6
		FROM users
		WHERE user_id = $1 AND role = 'landlord'
		RETURNING expense_id::text, landlord_id::text, apartment_id::text, amount_cents, expense_type, description, expense_date
	`
	var e domain.Expense
	err := r.db.QueryRowContext(ctx, query,
		ne.LandlordID, apt, ne.AmountCents, ne.ExpenseType, desc, ne.ExpenseDate,
	).Scan(&e.ExpenseID, &e.LandlordID, &e.ApartmentID, &e.AmountCents, &e.ExpenseType, &e.Description, &e.ExpenseDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, badreff("landlord %q does not exist or is not a landlord", ne.LandlordID)
		}
		return nil, mapPQError(err, "create expense")
	}
	return &e, nil
}

func (r *PostgresExpensesRepository) GetExpensesByLandlord(ctx context.Context, landlordID string) ([]*domain.Expense, error) {
	out := []*domain.Expense{}
	if landlordID == "" {
		return out, nil
	}

	query := `
		SELECT expense_id::text, landlord_id::text, apartment_id::text, amount_cents, expense_type, description, expense_date
		FROM expenses
		WHERE landlord_id = $1
		ORDER BY expense_date, expense_id
	`
	rows, err := r.db.QueryContext(ctx, query, landlordID)
	if err != nil {
		return nil, mapPQError(err, "list expenses")
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ExpenseID, &e.LandlordID, &e.ApartmentID, &e.AmountCents, &e.ExpenseType, &e.Description, &e.ExpenseDate); err != nil {
			return nil, mapPQError(err, "scan expense")
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
