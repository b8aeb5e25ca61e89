package repository

import (
	"context"
	"database/sql"
	"errors"

	"nyumbani-data/internal/domain"
)

// PostgresPaymentsRepository 租金支付 Repository 实现
type PostgresPaymentsRepository struct {
	db *sql.DB
}

func NewPostgresPaymentsRepository(db *sql.DB) *PostgresPaymentsRepository {
	return &PostgresPaymentsRepository{db: db}
}

var _ PaymentsRepository = (*PostgresPaymentsRepository)(nil)

const paymentColumns = `
	payment_id::text,
	tenant_id::text,
	room_id::text,
	amount_cents,
	method,
	transaction_code,
	proof_ref,
	status,
	payment_date,
	created_at
`

func scanPayment(scan func(dest ...any) error) (*domain.RentPayment, error) {
	var p domain.RentPayment
	err := scan(
		&p.PaymentID,
		&p.TenantID,
		&p.RoomID,
		&p.AmountCents,
		&p.Method,
		&p.TransactionCode,
		&p.ProofRef,
		&p.Status,
		&p.PaymentDate,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPaymentsRepository) CreateRentPayment(ctx context.Context, np domain.NewRentPayment) (*domain.RentPayment, error) {
	if err := np.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	// tenant 角色由子查询校验；status 固定写入 'pending'。
	query := `
		INSERT INTO rent_payments (tenant_id, room_id, amount_cents, method, transaction_code, proof_ref, status, payment_date)
		SELECT user_id, $2, $3, $4, $5, $6, 'pending', $7
		FROM users
		WHERE user_id = $1 AND role = 'tenant'
		RETURNING ` + paymentColumns

	var txCode, proofRef sql.NullString
	if np.TransactionCode != "" {
		txCode = sql.NullString{String: np.TransactionCode, Valid: true}
	}
	if np.ProofRef != "" {
		proofRef = sql.NullString{String: np.ProofRef, Valid: true}
	}

	p, err := scanPayment(r.db.QueryRowContext(ctx, query,
		np.TenantID,
		np.RoomID,
		np.AmountCents,
		string(np.Method),
		txCode,
		proofRef,
		np.PaymentDate,
	).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, badreff("tenant %q does not exist or is not a tenant", np.TenantID)
		}
		return nil, mapPQError(err, "create rent payment")
	}
	return p, nil
}

func (r *PostgresPaymentsRepository) GetPayment(ctx context.Context, paymentID string) (*domain.RentPayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM rent_payments WHERE payment_id = $1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, paymentID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("payment %q", paymentID)
		}
		return nil, mapPQError(err, "get payment")
	}
	return p, nil
}

func (r *PostgresPaymentsRepository) GetPaymentsByTenant(ctx context.Context, tenantID string) ([]*domain.RentPayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM rent_payments WHERE tenant_id = $1 ORDER BY created_at, payment_id`
	return r.queryPayments(ctx, query, tenantID)
}

func (r *PostgresPaymentsRepository) GetPaymentsByLandlord(ctx context.Context, landlordID string) ([]*domain.RentPayment, error) {
	// room -> unit -> apartment 链路按房东硬过滤。
	query := `
		SELECT ` + paymentColumns + `
		FROM rent_payments p
		JOIN rooms r ON r.room_id = p.room_id
		JOIN units u ON u.unit_id = r.unit_id
		JOIN apartments a ON a.apartment_id = u.apartment_id
		WHERE a.landlord_id = $1
		ORDER BY p.created_at, p.payment_id
	`
	return r.queryPayments(ctx, query, landlordID)
}

func (r *PostgresPaymentsRepository) queryPayments(ctx context.Context, query string, arg any) ([]*domain.RentPayment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, mapPQError(err, "list payments")
	}
	defer rows.Close()

	out := []*domain.RentPayment{}
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, mapPQError(err, "scan payment")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresPaymentsRepository) ConfirmPayment(ctx context.Context, paymentID, transactionCode string) (*domain.RentPayment, error) {
	return r.transition(ctx, paymentID, domain.PaymentConfirmed, transactionCode)
}

func (r *PostgresPaymentsRepository) FailPayment(ctx context.Context, paymentID string) (*domain.RentPayment, error) {
	return r.transition(ctx, paymentID, domain.PaymentFailed, "")
}

// transition 只允许 pending -> 终态。WHERE status='pending' 保证终态不回退，
// 同时也挡住两个并发确认里的后到者。
func (r *PostgresPaymentsRepository) transition(ctx context.Context, paymentID string, to domain.PaymentStatus, transactionCode string) (*domain.RentPayment, error) {
	var p *domain.RentPayment
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			UPDATE rent_payments
			SET status = $1,
			    transaction_code = COALESCE(NULLIF($2, ''), transaction_code)
			WHERE payment_id = $3 AND status = 'pending'
			RETURNING ` + paymentColumns
		got, err := scanPayment(tx.QueryRowContext(ctx, query, string(to), transactionCode, paymentID).Scan)
		if err == nil {
			p = got
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return mapPQError(err, "transition payment")
		}

		// 区分 NotFound 和终态回退
		var status string
		err = tx.QueryRowContext(ctx, `SELECT status FROM rent_payments WHERE payment_id = $1`, paymentID).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return notFoundf("payment %q", paymentID)
		}
		if err != nil {
			return mapPQError(err, "check payment status")
		}
		return invalidf("payment %q is already %s", paymentID, status)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
